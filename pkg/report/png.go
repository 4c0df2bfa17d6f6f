package report

import (
	"fmt"
	"image/color"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var teamGlyphs = map[teams.Team]draw.GlyphDrawer{
	teams.TeamA:   draw.CircleGlyph{},
	teams.TeamB:   draw.TriangleGlyph{},
	teams.Unknown: draw.SquareGlyph{},
}

// WritePNG saves the report as an image. The format follows path's extension (.png, .svg, .pdf, ...).
func WritePNG(d Data, path string) error {
	proj := d.projection()

	p := plot.New()
	p.Title.Text = d.Title
	p.X.Label.Text = proj.xLabel
	p.Y.Label.Text = proj.yLabel
	p.Add(plotter.NewGrid())

	for _, team := range []teams.Team{teams.TeamA, teams.TeamB, teams.Unknown} {
		pts := make([]Point, 0)
		for _, pt := range d.Points {
			if pt.Team == team {
				pts = append(pts, pt)
			}
		}
		if len(pts) == 0 {
			continue
		}

		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X, xys[i].Y = proj.apply(pt.Color)
		}

		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to build %s scatter: %w", team, err)
		}
		glyph := teamGlyphs[team]
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: rgba(pts[i].Color), Radius: vg.Points(5), Shape: glyph}
		}
		p.Add(s)
		p.Legend.Add(string(team), s)
	}

	if len(d.Centroids) > 0 {
		xys := make(plotter.XYs, len(d.Centroids))
		for i, c := range d.Centroids {
			xys[i].X, xys[i].Y = proj.apply(c)
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to build centroid scatter: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(8), Shape: draw.CrossGlyph{}}
		p.Add(s)
		p.Legend.Add("centroid", s)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save report '%s': %w", path, err)
	}

	return nil
}

func rgba(c teams.Color) color.RGBA {
	return color.RGBA{R: channel(c[2]), G: channel(c[1]), B: channel(c[0]), A: 255}
}
