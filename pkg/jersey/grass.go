package jersey

import (
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gocv.io/x/gocv"
)

// Grass is the background color of the pitch
type Grass struct {
	BGR teams.Color
	Hue float64 //hue of BGR on the 0-179 scale
}

// EstimateGrass returns the mean BGR color of all pixels in the broad green band of given frame.
// ok is false when the frame is empty, not BGR or has no green pixel at all, callers should try again on a later frame.
func EstimateGrass(frame gocv.Mat, th Thresholds) (g Grass, ok bool) {
	if frame.Empty() {
		return Grass{}, false
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV); err != nil {
		return Grass{}, false
	}

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, gocv.NewScalar(th.HueMin, th.SatMin, th.ValMin, 0), gocv.NewScalar(th.HueMax, 255, 255, 0), &mask)

	if gocv.CountNonZero(mask) == 0 {
		return Grass{}, false
	}

	mean := frame.MeanWithMask(mask)
	g.BGR = teams.Color{mean.Val1, mean.Val2, mean.Val3}
	if g.Hue, ok = HueOf(g.BGR); !ok {
		return Grass{}, false
	}

	return g, true
}

// HueOf converts a single BGR color to its OpenCV hue (0-179)
func HueOf(c teams.Color) (float64, bool) {
	px := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(c[0], c[1], c[2], 0), 1, 1, gocv.MatTypeCV8UC3)
	defer px.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(px, &hsv, gocv.ColorBGRToHSV); err != nil {
		return 0, false
	}

	return float64(hsv.GetVecbAt(0, 0)[0]), true
}
