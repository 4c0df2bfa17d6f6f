package api

import (
	"errors"
	"net/http"

	"github.com/chenBenjamin97/pitch-teams/pkg/report"
	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/gin-gonic/gin"
)

// runResponse is a stored run with its team assignments
type runResponse struct {
	Run       *store.Run         `json:"run"`
	Tracks    []store.TrackTeam  `json:"tracks"`
	Centroids []store.Centroid   `json:"centroids"`
	Counts    map[teams.Team]int `json:"counts"`
}

// liveResponse is the state of a session that's still tagging
type liveResponse struct {
	RunID  string                       `json:"run_id"`
	Frames int                          `json:"frames"`
	Phase  teams.Phase                  `json:"phase"`
	Labels map[teams.TrackID]teams.Team `json:"labels"`
	Counts map[teams.Team]int           `json:"counts"`
}

func (s *Server) teams(ctx *gin.Context) {
	name := ctx.Query("name")
	if name == "" {
		ctx.Status(http.StatusNotAcceptable) //missing url parameter
		return
	}

	run, err := s.store.LatestRun(ctx, name)
	if err != nil {
		s.storeError(ctx, err)
		return
	}

	s.writeRun(ctx, run)
}

func (s *Server) listRuns(ctx *gin.Context) {
	name := ctx.Query("name")
	if name == "" {
		ctx.Status(http.StatusNotAcceptable) //missing url parameter
		return
	}

	runs, err := s.store.ListRuns(ctx, name)
	if err != nil {
		s.storeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(ctx *gin.Context) {
	run, err := s.store.GetRun(ctx, ctx.Param("id"))
	if err != nil {
		s.storeError(ctx, err)
		return
	}

	s.writeRun(ctx, run)
}

func (s *Server) writeRun(ctx *gin.Context, run *store.Run) {
	tracks, err := s.store.TrackTeams(ctx, run.ID)
	if err != nil {
		s.storeError(ctx, err)
		return
	}

	centroids, err := s.store.Centroids(ctx, run.ID)
	if err != nil {
		s.storeError(ctx, err)
		return
	}

	counts := map[teams.Team]int{teams.TeamA: 0, teams.TeamB: 0, teams.Unknown: 0}
	for _, tt := range tracks {
		counts[tt.Team]++
	}

	ctx.JSON(http.StatusOK, runResponse{Run: run, Tracks: tracks, Centroids: centroids, Counts: counts})
}

func (s *Server) liveIDs(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.sessions.IDs())
}

func (s *Server) live(ctx *gin.Context) {
	session, ok := s.sessions.Get(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no live session"})
		return
	}

	res := session.Snapshot()
	ctx.JSON(http.StatusOK, liveResponse{
		RunID:  res.SessionID,
		Frames: res.Frames,
		Phase:  res.Phase,
		Labels: session.Labels(),
		Counts: res.Counts(),
	})
}

// chart renders the cluster scatter of a run, from the live session while it's tagging and from the store after
func (s *Server) chart(ctx *gin.Context) {
	id := ctx.Param("id")

	var data report.Data
	if session, ok := s.sessions.Get(id); ok {
		data = report.FromResult("live "+id, session.Snapshot())
	} else {
		run, err := s.store.GetRun(ctx, id)
		if err != nil {
			s.storeError(ctx, err)
			return
		}
		tracks, err := s.store.TrackTeams(ctx, id)
		if err != nil {
			s.storeError(ctx, err)
			return
		}
		centroids, err := s.store.Centroids(ctx, id)
		if err != nil {
			s.storeError(ctx, err)
			return
		}
		data = report.FromStore(run.Video, tracks, centroids)
	}

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := report.RenderHTML(data, ctx.Writer); err != nil {
		s.log.Error("api/Chart: could not render chart", "run_id", id, "error", err)
	}
}

func (s *Server) storeError(ctx *gin.Context, err error) {
	if errors.Is(err, store.ErrRunNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	s.log.Error("api: store failure", "path", ctx.Request.URL.Path, "error", err)
	ctx.Status(http.StatusInternalServerError)
}
