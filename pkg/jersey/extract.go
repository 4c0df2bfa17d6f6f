package jersey

import (
	"image"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gocv.io/x/gocv"
)

// Extractor takes one jersey color sample out of a player crop, ignoring pixels that look like the pitch
type Extractor struct {
	grass Grass
	th    Thresholds
}

func NewExtractor(grass Grass, th Thresholds) *Extractor {
	return &Extractor{grass: grass, th: th}
}

func (e *Extractor) Grass() Grass {
	return e.grass
}

// Extract returns the mean BGR color of the non-grass pixels in the top half of crop (the torso, where the jersey is).
// ok is false for an empty or non BGR crop, or when no pixel survives the masking.
func (e *Extractor) Extract(crop gocv.Mat) (c teams.Color, ok bool) {
	if crop.Empty() || crop.Rows() < 2 || crop.Cols() == 0 {
		return teams.Color{}, false
	}

	torso := crop.Region(image.Rect(0, 0, crop.Cols(), crop.Rows()/2))
	defer torso.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(torso, &hsv, gocv.ColorBGRToHSV); err != nil {
		return teams.Color{}, false
	}

	grassMask := gocv.NewMat()
	defer grassMask.Close()
	lower := gocv.NewScalar(e.grass.Hue-e.th.HueHalfWidth, e.th.SatMin, e.th.ValMin, 0)
	upper := gocv.NewScalar(e.grass.Hue+e.th.HueHalfWidth, 255, 255, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &grassMask)

	keep := gocv.NewMat()
	defer keep.Close()
	gocv.BitwiseNot(grassMask, &keep)

	if gocv.CountNonZero(keep) == 0 {
		return teams.Color{}, false
	}

	mean := torso.MeanWithMask(keep)
	c = teams.Color{mean.Val1, mean.Val2, mean.Val3}

	return c, c.Valid()
}
