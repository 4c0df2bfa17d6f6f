package detect

import (
	"image"
	"testing"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestDetectionText(t *testing.T) {
	tests := []struct {
		name string
		det  Detection
		team teams.Team
		want string
	}{
		{"tracked player", Detection{Class: PlayerClass, ID: intPtr(7)}, teams.TeamA, "Player 7 | TeamA"},
		{"player without track", Detection{Class: PlayerClass}, teams.TeamB, "Player"},
		{"unknown team", Detection{Class: PlayerClass, ID: intPtr(3)}, teams.Unknown, "Player 3 | Unknown"},
		{"goalkeeper", Detection{Class: GoalkeeperClass, ID: intPtr(1)}, teams.Unknown, "GK 1"},
		{"goalkeeper without track", Detection{Class: GoalkeeperClass}, teams.Unknown, "GK"},
		{"ball", Detection{Class: BallClass, ID: intPtr(99)}, teams.Unknown, "Ball"},
		{"main referee", Detection{Class: MainRefereeClass}, teams.Unknown, "Main Ref"},
		{"side referee", Detection{Class: SideRefereeClass}, teams.Unknown, "Side Ref"},
		{"staff", Detection{Class: StaffClass}, teams.Unknown, "Staff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.det.Text(tt.team))
		})
	}
}

func TestDetectionSampleable(t *testing.T) {
	big := Detection{Class: PlayerClass, ID: intPtr(1), Xmin: 0, Ymin: 0, Xmax: 20, Ymax: 25}
	assert.Equal(t, 500, big.Area())
	assert.True(t, big.Sampleable(500))

	small := Detection{Class: PlayerClass, ID: intPtr(1), Xmin: 0, Ymin: 0, Xmax: 20, Ymax: 24}
	assert.False(t, small.Sampleable(500))

	untracked := big
	untracked.ID = nil
	assert.False(t, untracked.Sampleable(500))

	gk := big
	gk.Class = GoalkeeperClass
	assert.False(t, gk.Sampleable(500))

	inverted := Detection{Xmin: 10, Xmax: 5, Ymin: 0, Ymax: 10}
	assert.Equal(t, 0, inverted.Area())
}

func TestDetectionClamp(t *testing.T) {
	d := Detection{Xmin: -5, Ymin: -1, Xmax: 700, Ymax: 300}
	d.Clamp(640, 360)
	assert.Equal(t, image.Rect(0, 0, 640, 300), d.Rect())

	d = Detection{Xmin: 650, Ymin: 400, Xmax: 660, Ymax: 500}
	d.Clamp(640, 360)
	assert.True(t, d.Rect().Empty())
}

func TestDetectionTrackID(t *testing.T) {
	d := Detection{ID: intPtr(42)}
	id, ok := d.TrackID()
	assert.True(t, ok)
	assert.Equal(t, teams.TrackID(42), id)

	_, ok = (&Detection{}).TrackID()
	assert.False(t, ok)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "Player", PlayerClass.String())
	assert.Equal(t, "Class(9)", Class(9).String())
}
