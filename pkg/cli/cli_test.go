package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points every directory of a fresh config at a temp dir and returns its path
func writeConfig(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	t.Chdir(root)

	path := filepath.Join(root, "config.yaml")
	body := `directory:
  root: ` + root + `
  source: ` + filepath.Join(root, "source") + `
  ready: ` + filepath.Join(root, "ready") + `
  temp: ` + filepath.Join(root, "temp") + `
  reports: ` + filepath.Join(root, "reports") + `
database:
  path: ` + filepath.Join(root, "runs.db") + `
logging:
  dir: ` + filepath.Join(root, "logs") + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	return path, root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		teamsJSON = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTeamsCommand(t *testing.T) {
	cfgPath, root := writeConfig(t)

	st, err := store.Open(filepath.Join(root, "runs.db"))
	require.NoError(t, err)
	run, err := st.CreateRun(context.Background(), "match.mp4")
	require.NoError(t, err)
	require.NoError(t, st.FinishRun(context.Background(), run.ID, teams.Result{
		SessionID: run.ID,
		Frames:    60,
		Phase:     teams.PhaseFrozen,
		Tracks: []teams.TrackResult{
			{Track: 3, Team: teams.TeamA, Color: teams.Color{20, 20, 200}, HasColor: true, Samples: 10},
			{Track: 8, Team: teams.Unknown},
		},
		Centroids: []teams.Color{{20, 20, 200}, {200, 200, 200}},
	}))
	require.NoError(t, st.Close())

	out, err := execute(t, "teams", "--config", cfgPath, "match.mp4")
	require.NoError(t, err)
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, "TeamA")
	assert.Contains(t, out, "20,20,200")
	assert.Contains(t, out, "Unknown")

	out, err = execute(t, "teams", "--config", cfgPath, "--json", "match.mp4")
	require.NoError(t, err)
	assert.Contains(t, out, `"track_id": 3`)
}

func TestTeamsCommandWithoutRun(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := execute(t, "teams", "--config", cfgPath, "other.mp4")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestTagCommandMissingVideo(t *testing.T) {
	cfgPath, root := writeConfig(t)

	_, err := execute(t, "tag", "--config", cfgPath, "missing.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video not found")
	assert.DirExists(t, filepath.Join(root, "source"), "directories are created on start")
}

func TestCommandsNeedOneVideo(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := execute(t, "tag", "--config", cfgPath)
	assert.Error(t, err)
}
