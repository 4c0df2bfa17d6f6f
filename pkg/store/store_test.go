package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testResult(id string) teams.Result {
	return teams.Result{
		SessionID: id,
		Frames:    120,
		Phase:     teams.PhaseFrozen,
		Tracks: []teams.TrackResult{
			{Track: 1, Team: teams.TeamA, Color: teams.Color{20, 20, 200}, HasColor: true, Samples: 40},
			{Track: 2, Team: teams.TeamB, Color: teams.Color{200, 20, 20}, HasColor: true, Samples: 35},
			{Track: 9, Team: teams.Unknown, Samples: 0},
		},
		Centroids: []teams.Color{{20, 20, 200}, {200, 20, 20}},
	}
}

func TestMigrations(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// running again is a no-op
	require.NoError(t, s.MigrateUp())
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run, err := s.CreateRun(ctx, "derby.mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "derby.mp4", got.Video)
	assert.Nil(t, got.FinishedAt)
	assert.Equal(t, teams.PhaseUnfit, got.Phase)

	_, err = s.LatestRun(ctx, "derby.mp4")
	assert.ErrorIs(t, err, ErrRunNotFound, "running runs are not finished results")

	require.NoError(t, s.FinishRun(ctx, run.ID, testResult(run.ID)))

	got, err = s.LatestRun(ctx, "derby.mp4")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, teams.PhaseFrozen, got.Phase)
	assert.Equal(t, 120, got.Frames)
	require.NotNil(t, got.FinishedAt)

	tracks, err := s.TrackTeams(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, TrackTeam{Track: 1, Team: teams.TeamA, HasColor: true, Color: teams.Color{20, 20, 200}, Samples: 40}, tracks[0])
	assert.Equal(t, teams.Unknown, tracks[2].Team)
	assert.False(t, tracks[2].HasColor)

	centroids, err := s.Centroids(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, centroids, 2)
	assert.Equal(t, teams.TeamA, centroids[0].Team)
	assert.Equal(t, teams.TeamB, centroids[1].Team)
	assert.Equal(t, teams.Color{200, 20, 20}, centroids[1].Color)
}

func TestFinishRunCentroidTeamsMatchTrackLabels(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	params := teams.DefaultParams()
	params.MinReadyFrames = 1
	session := teams.NewRegistry().Start("fit", params)
	session.ObserveFrame([]teams.Observation{
		{Track: 1, Color: teams.Color{200, 20, 20}, Sampled: true},
		{Track: 2, Color: teams.Color{20, 20, 200}, Sampled: true},
		{Track: 3, Color: teams.Color{190, 25, 15}, Sampled: true},
	})
	res := session.Snapshot()
	require.Equal(t, teams.PhaseFrozen, res.Phase)

	run, err := s.CreateRun(ctx, "derby.mp4")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, run.ID, res))

	centroids, err := s.Centroids(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, centroids, 2)
	tracks, err := s.TrackTeams(ctx, run.ID)
	require.NoError(t, err)

	model := teams.Model{Centroids: res.Centroids}
	for _, tr := range tracks {
		cluster := model.Predict(tr.Color)
		assert.Equal(t, centroids[cluster].Team, tr.Team, "track %d is stored with the team of its cluster", tr.Track)
	}
}

func TestFailRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run, err := s.CreateRun(ctx, "broken.mp4")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("could not open video")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "could not open video", got.Error)

	runs, err := s.ListRuns(ctx, "broken.mp4")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestLatestRunPicksNewest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.CreateRun(ctx, "final.mp4")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, first.ID, testResult(first.ID)))

	second, err := s.CreateRun(ctx, "final.mp4")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, second.ID, testResult(second.ID)))

	got, err := s.LatestRun(ctx, "final.mp4")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	runs, err := s.ListRuns(ctx, "final.mp4")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
}

func TestMissingRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, s.FinishRun(ctx, "nope", testResult("nope")), ErrRunNotFound)
	assert.ErrorIs(t, s.FailRun(ctx, "nope", nil), ErrRunNotFound)

	tracks, err := s.TrackTeams(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}
