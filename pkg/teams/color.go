package teams

import (
	"fmt"
	"math"
)

// TrackID identifies one tracked object across frames. It is assigned by the external tracker,
// this package only keys derived data by it.
type TrackID int

// Color is a single jersey color sample, channels in BGR order (the order gocv hands us frames in)
type Color [3]float64

// Valid reports whether every channel holds a finite number
func (c Color) Valid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Team is the label given to a player track
type Team string

const (
	TeamA   Team = "TeamA"
	TeamB   Team = "TeamB"
	Unknown Team = "Unknown"
)

// ParseTeam converts a stored label back to a Team
func ParseTeam(s string) (Team, error) {
	switch Team(s) {
	case TeamA, TeamB, Unknown:
		return Team(s), nil
	default:
		return Unknown, fmt.Errorf("ParseTeam: invalid team label '%s'", s)
	}
}

// TeamForCluster maps a cluster index of the frozen model to a team label: cluster 0 is always TeamA
func TeamForCluster(idx int) Team {
	if idx == 0 {
		return TeamA
	}

	return TeamB
}
