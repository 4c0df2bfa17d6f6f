package jersey

import (
	"image"
	"testing"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	pitchGreen = gocv.NewScalar(40, 160, 40, 0)
	shirtRed   = gocv.NewScalar(0, 0, 200, 0)
	shortsBlue = gocv.NewScalar(200, 0, 0, 0)
	shirtWhite = gocv.NewScalar(255, 255, 255, 0)
)

// solid returns a rows x cols BGR mat filled with s. Caller closes it.
func solid(rows, cols int, s gocv.Scalar) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(s, rows, cols, gocv.MatTypeCV8UC3)
}

func paint(m gocv.Mat, r image.Rectangle, s gocv.Scalar) {
	region := m.Region(r)
	defer region.Close()
	region.SetTo(s)
}

func testGrass() Grass {
	return Grass{BGR: teams.Color{40, 160, 40}, Hue: 60}
}

func TestEstimateGrassAllGreen(t *testing.T) {
	frame := solid(60, 80, pitchGreen)
	defer frame.Close()

	g, ok := EstimateGrass(frame, DefaultThresholds())
	require.True(t, ok)
	assert.InDelta(t, 40, g.BGR[0], 0.5)
	assert.InDelta(t, 160, g.BGR[1], 0.5)
	assert.InDelta(t, 40, g.BGR[2], 0.5)
	assert.InDelta(t, 60, g.Hue, 1)
}

func TestEstimateGrassIgnoresNonGreen(t *testing.T) {
	frame := solid(60, 80, pitchGreen)
	defer frame.Close()
	paint(frame, image.Rect(0, 0, 80, 20), shirtRed) //stands and advertising boards

	g, ok := EstimateGrass(frame, DefaultThresholds())
	require.True(t, ok)
	assert.InDelta(t, 40, g.BGR[0], 0.5)
	assert.InDelta(t, 160, g.BGR[1], 0.5)
	assert.InDelta(t, 40, g.BGR[2], 0.5)
}

func TestEstimateGrassNoGreen(t *testing.T) {
	frame := solid(20, 20, shirtRed)
	defer frame.Close()

	_, ok := EstimateGrass(frame, DefaultThresholds())
	assert.False(t, ok)

	empty := gocv.NewMat()
	defer empty.Close()
	_, ok = EstimateGrass(empty, DefaultThresholds())
	assert.False(t, ok)
}

func TestHueOf(t *testing.T) {
	for _, tc := range []struct {
		c   teams.Color
		hue float64
	}{
		{teams.Color{40, 160, 40}, 60},
		{teams.Color{0, 0, 200}, 0},
		{teams.Color{200, 0, 0}, 120},
	} {
		hue, ok := HueOf(tc.c)
		require.True(t, ok)
		assert.InDelta(t, tc.hue, hue, 1, "%v", tc.c)
	}
}

func TestGrayscaleFrameIsRejected(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 0, 0, 0), 40, 40, gocv.MatTypeCV8UC1)
	defer gray.Close()

	_, ok := EstimateGrass(gray, DefaultThresholds())
	assert.False(t, ok, "no hsv conversion for a single channel frame")

	_, ok = NewExtractor(testGrass(), DefaultThresholds()).Extract(gray)
	assert.False(t, ok, "no hsv conversion for a single channel crop")
}

func TestExtractEmptyCrop(t *testing.T) {
	e := NewExtractor(testGrass(), DefaultThresholds())

	empty := gocv.NewMat()
	defer empty.Close()
	_, ok := e.Extract(empty)
	assert.False(t, ok)

	oneRow := solid(1, 10, shirtRed)
	defer oneRow.Close()
	_, ok = e.Extract(oneRow)
	assert.False(t, ok, "a single row has no top half")
}

func TestExtractUsesTopHalf(t *testing.T) {
	e := NewExtractor(testGrass(), DefaultThresholds())

	crop := solid(40, 20, shirtRed)
	defer crop.Close()
	paint(crop, image.Rect(0, 20, 20, 40), shortsBlue)

	c, ok := e.Extract(crop)
	require.True(t, ok)
	assert.InDelta(t, 0, c[0], 0.5)
	assert.InDelta(t, 0, c[1], 0.5)
	assert.InDelta(t, 200, c[2], 0.5)
}

func TestExtractMasksGrass(t *testing.T) {
	e := NewExtractor(testGrass(), DefaultThresholds())

	crop := solid(40, 20, pitchGreen)
	defer crop.Close()
	paint(crop, image.Rect(10, 0, 20, 20), shirtWhite)

	c, ok := e.Extract(crop)
	require.True(t, ok)
	assert.InDelta(t, 255, c[0], 0.5)
	assert.InDelta(t, 255, c[1], 0.5)
	assert.InDelta(t, 255, c[2], 0.5)
}

func TestExtractOnlyGrassInTorso(t *testing.T) {
	e := NewExtractor(testGrass(), DefaultThresholds())

	crop := solid(40, 20, pitchGreen)
	defer crop.Close()
	paint(crop, image.Rect(0, 20, 20, 40), shirtRed)

	_, ok := e.Extract(crop)
	assert.False(t, ok)
}

func TestExtractFromFrameRegion(t *testing.T) {
	e := NewExtractor(testGrass(), DefaultThresholds())

	frame := solid(100, 100, pitchGreen)
	defer frame.Close()
	paint(frame, image.Rect(30, 30, 50, 50), shirtRed)

	crop := frame.Region(image.Rect(30, 30, 50, 70))
	defer crop.Close()

	c, ok := e.Extract(crop)
	require.True(t, ok)
	assert.InDelta(t, 200, c[2], 0.5)
	assert.Equal(t, testGrass(), e.Grass())
}
