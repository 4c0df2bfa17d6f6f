package video

import (
	"testing"

	"github.com/chenBenjamin97/pitch-teams/pkg/detect"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestDrawDetection(t *testing.T) {
	frameMat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 200, gocv.MatTypeCV8UC3)
	defer frameMat.Close()

	drawDetection(&frameMat, player(7, 50, 80, 100, 180), teams.TeamA)

	//left edge of the box has the player color, in BGR
	px := frameMat.GetVecbAt(130, 50)
	assert.Equal(t, []uint8{150, 50, 50}, []uint8{px[0], px[1], px[2]})

	//inside the box nothing is drawn
	inner := frameMat.GetVecbAt(150, 75)
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{inner[0], inner[1], inner[2]})

	//label background above the box
	label := frameMat.GetVecbAt(75, 51)
	assert.NotEqual(t, []uint8{0, 0, 0}, []uint8{label[0], label[1], label[2]})
}

func TestDrawDetectionSkipsEmptyBox(t *testing.T) {
	frameMat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer frameMat.Close()

	drawDetection(&frameMat, &detect.Detection{Class: detect.BallClass, Xmin: 10, Ymin: 10, Xmax: 10, Ymax: 30}, teams.Unknown)
	gray := grayOf(frameMat)
	defer gray.Close()
	assert.Equal(t, 0, gocv.CountNonZero(gray))
}

func grayOf(m gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)
	return gray
}
