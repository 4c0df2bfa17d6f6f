package detect

import (
	"fmt"
	"image"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
)

// Class is the detector's object class
type Class int

const (
	PlayerClass Class = iota
	GoalkeeperClass
	BallClass
	MainRefereeClass
	SideRefereeClass
	StaffClass
)

var classNames = map[Class]string{
	PlayerClass:      "Player",
	GoalkeeperClass:  "GK",
	BallClass:        "Ball",
	MainRefereeClass: "Main Ref",
	SideRefereeClass: "Side Ref",
	StaffClass:       "Staff",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Class(%d)", int(c))
}

// Detection is a single bounding box as printed by the tracker. ID is nil until the tracker assigns a track.
type Detection struct {
	Class      Class
	ID         *int
	Confidence float32
	Xmin       int
	Ymin       int
	Xmax       int
	Ymax       int
}

// Frame holds every detection of one video frame. Number starts at 1.
type Frame struct {
	Number     int
	Detections []*Detection
}

func NewFrame(number int) *Frame {
	return &Frame{Number: number, Detections: make([]*Detection, 0)}
}

func (d *Detection) Rect() image.Rectangle {
	return image.Rect(d.Xmin, d.Ymin, d.Xmax, d.Ymax)
}

// Area is the bounding box area in pixels, 0 for inverted boxes
func (d *Detection) Area() int {
	w, h := d.Xmax-d.Xmin, d.Ymax-d.Ymin
	if w <= 0 || h <= 0 {
		return 0
	}

	return w * h
}

// TrackID returns the track id, ok is false when the tracker did not assign one yet
func (d *Detection) TrackID() (teams.TrackID, bool) {
	if d.ID == nil {
		return 0, false
	}

	return teams.TrackID(*d.ID), true
}

// IsTrackedPlayer is true for player boxes that carry a track id
func (d *Detection) IsTrackedPlayer() bool {
	return d.Class == PlayerClass && d.ID != nil
}

// Sampleable is true when a jersey color should be taken from this box. Smaller boxes are too unreliable.
func (d *Detection) Sampleable(minArea int) bool {
	return d.IsTrackedPlayer() && d.Area() >= minArea
}

// Clamp fixes box values in case they are out of the frame's range
func (d *Detection) Clamp(frameWidth, frameHeight int) {
	d.Xmin = clamp(d.Xmin, 0, frameWidth)
	d.Xmax = clamp(d.Xmax, 0, frameWidth)
	d.Ymin = clamp(d.Ymin, 0, frameHeight)
	d.Ymax = clamp(d.Ymax, 0, frameHeight)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// Text returns the label drawn above the box. team is only used for tracked players.
func (d *Detection) Text(team teams.Team) string {
	switch d.Class {
	case PlayerClass:
		if d.ID != nil {
			return fmt.Sprintf("Player %d | %s", *d.ID, team)
		}
		return "Player"
	case GoalkeeperClass:
		if d.ID != nil {
			return fmt.Sprintf("GK %d", *d.ID)
		}
		return "GK"
	default:
		return d.Class.String()
	}
}
