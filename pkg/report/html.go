package report

import (
	"fmt"
	"io"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var teamSymbols = map[teams.Team]string{
	teams.TeamA:   "circle",
	teams.TeamB:   "triangle",
	teams.Unknown: "rect",
}

// RenderHTML writes an interactive scatter of the report to w
func RenderHTML(d Data, w io.Writer) error {
	proj := d.projection()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: d.Title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: d.Title, Subtitle: fmt.Sprintf("tracks=%d centroids=%d", len(d.Points), len(d.Centroids))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: proj.xLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: proj.yLabel, NameLocation: "middle", NameGap: 30}),
	)

	for _, team := range []teams.Team{teams.TeamA, teams.TeamB, teams.Unknown} {
		data := make([]opts.ScatterData, 0)
		for _, pt := range d.Points {
			if pt.Team != team {
				continue
			}
			x, y := proj.apply(pt.Color)
			data = append(data, opts.ScatterData{
				Name:   fmt.Sprintf("Player %d (%s)", pt.Track, hexColor(pt.Color)),
				Value:  []interface{}{x, y},
				Symbol: teamSymbols[team],
			})
		}
		if len(data) == 0 {
			continue
		}
		scatter.AddSeries(string(team), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}))
	}

	if len(d.Centroids) > 0 {
		data := make([]opts.ScatterData, len(d.Centroids))
		for i, c := range d.Centroids {
			x, y := proj.apply(c)
			data[i] = opts.ScatterData{Name: fmt.Sprintf("centroid %d (%s)", i, hexColor(c)), Value: []interface{}{x, y}, Symbol: "diamond"}
		}
		scatter.AddSeries("centroid", data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 20}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#212121"}),
		)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
