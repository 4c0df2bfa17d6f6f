package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run matches the query
var ErrRunNotFound = errors.New("run not found")

// Run status values
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run is one tagging of one video
type Run struct {
	ID         string      `json:"id"`
	Video      string      `json:"video"`
	Status     string      `json:"status"`
	Phase      teams.Phase `json:"phase"`
	Frames     int         `json:"frames"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// TrackTeam is the stored team assignment of one track
type TrackTeam struct {
	Track    teams.TrackID `json:"track_id"`
	Team     teams.Team    `json:"team"`
	HasColor bool          `json:"has_color"`
	Color    teams.Color   `json:"color"`
	Samples  int           `json:"samples"`
}

// Centroid is one cluster center of a run's frozen model
type Centroid struct {
	Cluster int         `json:"cluster"`
	Team    teams.Team  `json:"team"`
	Color   teams.Color `json:"color"`
}

// CreateRun records the start of a new run and returns it with a fresh id
func (s *Store) CreateRun(ctx context.Context, video string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Video:     video,
		Status:    StatusRunning,
		Phase:     teams.PhaseUnfit,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, video, status, phase, frames, started_at) VALUES (?, ?, ?, ?, 0, ?)`,
		run.ID, run.Video, run.Status, string(run.Phase), run.StartedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create run for '%s': %w", video, err)
	}

	return run, nil
}

// FinishRun stores the final session state of a run and marks it done
func (s *Store) FinishRun(ctx context.Context, runID string, res teams.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	out, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, phase = ?, frames = ?, finished_at = ? WHERE id = ?`,
		StatusDone, string(res.Phase), res.Frames, time.Now().UTC().UnixNano(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run '%s': %w", runID, err)
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}

	for _, tr := range res.Tracks {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO track_teams (run_id, track_id, team, has_color, b, g, r, samples) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, int(tr.Track), string(tr.Team), tr.HasColor, tr.Color[0], tr.Color[1], tr.Color[2], tr.Samples)
		if err != nil {
			return fmt.Errorf("failed to store track %d: %w", tr.Track, err)
		}
	}

	for i, c := range res.Centroids {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO centroids (run_id, cluster, team, b, g, r) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, string(teams.TeamForCluster(i)), c[0], c[1], c[2])
		if err != nil {
			return fmt.Errorf("failed to store centroid %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FailRun marks a run as failed with the given cause
func (s *Store) FailRun(ctx context.Context, runID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	out, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		StatusFailed, msg, time.Now().UTC().UnixNano(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run '%s': %w", runID, err)
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}

	return nil
}

const runColumns = `id, video, status, phase, frames, started_at, finished_at, error`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var (
		run      Run
		phase    string
		started  int64
		finished sql.NullInt64
	)

	if err := row.Scan(&run.ID, &run.Video, &run.Status, &phase, &run.Frames, &started, &finished, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	run.Phase = teams.Phase(phase)
	run.StartedAt = time.Unix(0, started).UTC()
	if finished.Valid {
		t := time.Unix(0, finished.Int64).UTC()
		run.FinishedAt = &t
	}

	return &run, nil
}

// GetRun returns the run with given id
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

// LatestRun returns the most recently started finished run of a video
func (s *Store) LatestRun(ctx context.Context, video string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE video = ? AND status = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`,
		video, StatusDone)
	return scanRun(row)
}

// ListRuns returns every run of a video, newest first
func (s *Store) ListRuns(ctx context.Context, video string) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE video = ? ORDER BY started_at DESC, rowid DESC`, video)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs of '%s': %w", video, err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// TrackTeams returns the stored assignments of a run, ascending by track id
func (s *Store) TrackTeams(ctx context.Context, runID string) ([]TrackTeam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT track_id, team, has_color, b, g, r, samples FROM track_teams WHERE run_id = ? ORDER BY track_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks of run '%s': %w", runID, err)
	}
	defer rows.Close()

	res := make([]TrackTeam, 0)
	for rows.Next() {
		var (
			tt    TrackTeam
			track int
			team  string
		)
		if err := rows.Scan(&track, &team, &tt.HasColor, &tt.Color[0], &tt.Color[1], &tt.Color[2], &tt.Samples); err != nil {
			return nil, err
		}
		tt.Track = teams.TrackID(track)
		if tt.Team, err = teams.ParseTeam(team); err != nil {
			return nil, err
		}
		res = append(res, tt)
	}

	return res, rows.Err()
}

// Centroids returns the cluster centers of a run, empty when the run never froze a model
func (s *Store) Centroids(ctx context.Context, runID string) ([]Centroid, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster, team, b, g, r FROM centroids WHERE run_id = ? ORDER BY cluster`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query centroids of run '%s': %w", runID, err)
	}
	defer rows.Close()

	res := make([]Centroid, 0)
	for rows.Next() {
		var (
			c    Centroid
			team string
		)
		if err := rows.Scan(&c.Cluster, &team, &c.Color[0], &c.Color[1], &c.Color[2]); err != nil {
			return nil, err
		}
		if c.Team, err = teams.ParseTeam(team); err != nil {
			return nil, err
		}
		res = append(res, c)
	}

	return res, rows.Err()
}
