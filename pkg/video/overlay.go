package video

import (
	"image"
	"image/color"

	"github.com/chenBenjamin97/pitch-teams/pkg/detect"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gocv.io/x/gocv"
)

// bgr builds a drawing color from OpenCV channel order
func bgr(b, g, r uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0}
}

var classColors = map[detect.Class]color.RGBA{
	detect.PlayerClass:      bgr(150, 50, 50),
	detect.GoalkeeperClass:  bgr(41, 248, 165),
	detect.BallClass:        bgr(155, 62, 157),
	detect.MainRefereeClass: bgr(123, 174, 213),
	detect.SideRefereeClass: bgr(217, 89, 204),
	detect.StaffClass:       bgr(22, 11, 15),
}

var (
	defaultBoxColor = bgr(255, 255, 255)
	textColor       = bgr(255, 255, 255)
)

const (
	boxThickness  = 2
	textScale     = 1
	textThickness = 2
	textPadding   = 4
)

// drawDetection plots the bounding box with its label above it on a filled background.
// team is only shown for tracked players.
func drawDetection(frame *gocv.Mat, d *detect.Detection, team teams.Team) {
	rect := d.Rect()
	if rect.Empty() {
		return
	}

	boxColor, ok := classColors[d.Class]
	if !ok {
		boxColor = defaultBoxColor
	}
	gocv.Rectangle(frame, rect, boxColor, boxThickness)

	text := d.Text(team)
	size := gocv.GetTextSize(text, gocv.FontHersheyPlain, textScale, textThickness)

	//label goes above the box, or inside it when the box touches the top of the frame
	top := rect.Min.Y - size.Y - 2*textPadding
	if top < 0 {
		top = rect.Min.Y
	}
	background := image.Rect(rect.Min.X, top, rect.Min.X+size.X+2*textPadding, top+size.Y+2*textPadding)

	gocv.Rectangle(frame, background, boxColor, -1) //thickness -1 == filled rectangle
	gocv.PutText(frame, text, image.Pt(background.Min.X+textPadding, background.Max.Y-textPadding), gocv.FontHersheyPlain, textScale, textColor, textThickness)
}
