// Package report draws the team clustering of a run: every track is a point at its
// representative jersey color, projected to 2D, next to the centroids of the frozen model.
package report

import (
	"fmt"

	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Point is one track of the report
type Point struct {
	Track teams.TrackID
	Team  teams.Team
	Color teams.Color
}

// Data is everything a report is drawn from
type Data struct {
	Title     string
	Points    []Point
	Centroids []teams.Color
}

// FromResult builds report data from a live or finished session. Tracks without a color are left out.
func FromResult(title string, res teams.Result) Data {
	d := Data{Title: title, Centroids: res.Centroids}
	for _, tr := range res.Tracks {
		if tr.HasColor {
			d.Points = append(d.Points, Point{Track: tr.Track, Team: tr.Team, Color: tr.Color})
		}
	}

	return d
}

// FromStore builds report data from a persisted run
func FromStore(title string, tracks []store.TrackTeam, centroids []store.Centroid) Data {
	d := Data{Title: title}
	for _, tt := range tracks {
		if tt.HasColor {
			d.Points = append(d.Points, Point{Track: tt.Track, Team: tt.Team, Color: tt.Color})
		}
	}
	for _, c := range centroids {
		d.Centroids = append(d.Centroids, c.Color)
	}

	return d
}

// projection maps BGR colors to 2D. With at least 3 points it uses the first two principal components
// of the track colors, otherwise the red and blue channels directly.
type projection struct {
	mean   []float64
	basis  *mat.Dense // 3x2, nil for the raw channel fallback
	xLabel string
	yLabel string
}

func newProjection(colors []teams.Color) projection {
	raw := projection{xLabel: "R", yLabel: "B"}
	if len(colors) < 3 {
		return raw
	}

	data := mat.NewDense(len(colors), 3, nil)
	for i, c := range colors {
		data.SetRow(i, c[:])
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return raw
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	if _, cols := vecs.Dims(); cols < 2 {
		return raw
	}

	mean := make([]float64, 3)
	for j := range mean {
		mean[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}

	basis := mat.DenseCopyOf(vecs.Slice(0, 3, 0, 2))
	return projection{mean: mean, basis: basis, xLabel: "PC1", yLabel: "PC2"}
}

func (p projection) apply(c teams.Color) (x, y float64) {
	if p.basis == nil {
		return c[2], c[0]
	}

	centered := mat.NewDense(1, 3, []float64{c[0] - p.mean[0], c[1] - p.mean[1], c[2] - p.mean[2]})
	var out mat.Dense
	out.Mul(centered, p.basis)

	return out.At(0, 0), out.At(0, 1)
}

func (d Data) projection() projection {
	colors := make([]teams.Color, len(d.Points))
	for i, pt := range d.Points {
		colors[i] = pt.Color
	}

	return newProjection(colors)
}

// hexColor renders a BGR color as an HTML #rrggbb string
func hexColor(c teams.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c[2]), channel(c[1]), channel(c[0]))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
