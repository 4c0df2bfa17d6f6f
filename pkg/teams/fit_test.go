package teams

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitBlackAndWhiteThenClassifyNearBlack(t *testing.T) {
	labels, model := Fit(map[TrackID]Color{
		1: {0, 0, 0},
		2: {255, 255, 255},
	}, DefaultParams())
	require.NotNil(t, model)

	assert.NotEqual(t, labels[1], labels[2])
	assert.Contains(t, []Team{TeamA, TeamB}, labels[1])
	assert.Contains(t, []Team{TeamA, TeamB}, labels[2])

	assert.Equal(t, labels[1], Classify(Color{0, 0, 5}, model))
}

func TestFitClusterZeroIsTeamA(t *testing.T) {
	colors := map[TrackID]Color{1: {10, 10, 200}, 2: {200, 10, 10}, 3: {12, 8, 190}}
	labels, model := Fit(colors, DefaultParams())
	require.NotNil(t, model)

	for id, c := range colors {
		assert.Equal(t, TeamForCluster(model.Predict(c)), labels[id], "track %d", id)
	}
	assert.Equal(t, TeamA, TeamForCluster(0))
	assert.Equal(t, TeamB, TeamForCluster(1))
}

func TestFitTooFewValidTracks(t *testing.T) {
	labels, model := Fit(map[TrackID]Color{
		1: {10, 10, 10},
		2: {math.NaN(), 0, 0},
	}, DefaultParams())

	assert.Nil(t, model)
	assert.Equal(t, map[TrackID]Team{1: Unknown, 2: Unknown}, labels)
}

func TestFitInvalidColorIsUnknown(t *testing.T) {
	labels, model := Fit(map[TrackID]Color{
		1: {0, 0, 0},
		2: {255, 255, 255},
		3: {0, math.NaN(), 0},
	}, DefaultParams())

	require.NotNil(t, model)
	assert.Equal(t, Unknown, labels[3])
	assert.Len(t, labels, 3)
}

func TestFitIsDeterministic(t *testing.T) {
	colors := map[TrackID]Color{
		4: {30, 40, 200}, 8: {220, 210, 200}, 15: {35, 45, 190}, 16: {210, 220, 215}, 23: {120, 120, 120},
	}

	first, _ := Fit(colors, DefaultParams())
	for i := 0; i < 5; i++ {
		again, _ := Fit(colors, DefaultParams())
		assert.Equal(t, first, again)
	}
}

func TestFitDegenerateInputIsAccepted(t *testing.T) {
	labels, model := Fit(map[TrackID]Color{1: {9, 9, 9}, 2: {9, 9, 9}, 3: {9, 9, 9}}, DefaultParams())

	require.NotNil(t, model)
	assert.Len(t, labels, 3)
	for _, team := range labels {
		assert.Contains(t, []Team{TeamA, TeamB}, team)
	}
}

func TestClassifyWithoutModelOrColor(t *testing.T) {
	assert.Equal(t, Unknown, Classify(Color{1, 2, 3}, nil))
	assert.Equal(t, Unknown, Classify(Color{1, 2, 3}, &Model{}))

	model := &Model{Centroids: []Color{{0, 0, 0}, {255, 255, 255}}}
	assert.Equal(t, Unknown, Classify(Color{math.NaN(), 0, 0}, model))
	assert.Equal(t, TeamA, Classify(Color{10, 10, 10}, model))
	assert.Equal(t, TeamB, Classify(Color{250, 240, 230}, model))
}

func TestParseTeam(t *testing.T) {
	for _, team := range []Team{TeamA, TeamB, Unknown} {
		got, err := ParseTeam(string(team))
		require.NoError(t, err)
		assert.Equal(t, team, got)
	}

	_, err := ParseTeam("TeamC")
	assert.Error(t, err)
}
