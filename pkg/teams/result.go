package teams

import (
	"slices"
)

// TrackResult is the final state of one track in a session
type TrackResult struct {
	Track    TrackID
	Team     Team
	Color    Color //representative color, zero when HasColor is false
	HasColor bool
	Samples  int
}

// Result is a point-in-time copy of a session, used for persistence and reports
type Result struct {
	SessionID string
	Frames    int
	Phase     Phase
	Tracks    []TrackResult
	Centroids []Color
}

// Snapshot copies the session state. Tracks that have samples or a label are included, ascending by id.
func (s *Session) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{SessionID: s.id, Frames: s.frames, Phase: s.state.phase()}
	if st, ok := s.state.(frozenState); ok {
		res.Centroids = slices.Clone(st.model.Centroids)
	}

	ids := s.agg.Tracks()
	for id := range s.labels {
		if s.agg.Count(id) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		tr := TrackResult{Track: id, Team: Unknown, Samples: s.agg.Count(id)}
		if team, ok := s.labels[id]; ok {
			tr.Team = team
		}
		tr.Color, tr.HasColor = s.agg.Representative(id)
		res.Tracks = append(res.Tracks, tr)
	}

	return res
}

// Counts returns how many tracks carry each label
func (r Result) Counts() map[Team]int {
	counts := map[Team]int{TeamA: 0, TeamB: 0, Unknown: 0}
	for _, tr := range r.Tracks {
		counts[tr.Team]++
	}

	return counts
}
