package teams

import (
	"slices"
	"sync"
)

// Observation is what the frame loop knows about one player track in the current frame.
// Sampled is false when no jersey color could be taken (box too small, crop without jersey pixels, grass not known yet).
type Observation struct {
	Track   TrackID
	Color   Color
	Sampled bool
}

// FrameResult describes what one ObserveFrame call changed
type FrameResult struct {
	Frame    int
	Phase    Phase
	Fitted   bool             //a fit was attempted during this frame
	Resolved map[TrackID]Team //labels stored during this frame
}

// Session owns all team clustering state of a single video run: the per-track samples, the clustering model
// lifecycle and the team assignment map. One mutex guards all of it, fit-and-freeze is a check-then-act sequence.
type Session struct {
	mu sync.Mutex

	id     string
	params Params

	agg    *Aggregator
	state  clusterState
	labels map[TrackID]Team

	frames int
	fits   int
}

func NewSession(id string, p Params) *Session {
	return &Session{
		id:     id,
		params: p,
		agg:    NewAggregator(),
		state:  unfitState{},
		labels: make(map[TrackID]Team),
	}
}

func (s *Session) ID() string {
	return s.id
}

// ObserveFrame processes one frame: it records the new samples, fits the model when the readiness conditions hold,
// then tries to label every observed track that has no label yet.
func (s *Session) ObserveFrame(observations []Observation) FrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames++
	res := FrameResult{Frame: s.frames, Resolved: make(map[TrackID]Team)}

	for _, obs := range observations {
		if obs.Sampled {
			s.agg.AddSample(obs.Track, obs.Color)
		}
	}

	if _, isUnfit := s.state.(unfitState); isUnfit && s.readyLocked() {
		s.fitLocked(res.Resolved)
		res.Fitted = true
	}

	if model, done := settled(s.state); done {
		for _, obs := range observations {
			if _, ok := s.labels[obs.Track]; ok {
				continue
			}
			if team, ok := s.resolveLocked(obs.Track, model); ok {
				s.labels[obs.Track] = team
				res.Resolved[obs.Track] = team
			}
		}
	}

	res.Phase = s.state.phase()
	return res
}

func (s *Session) readyLocked() bool {
	return s.frames >= s.params.MinReadyFrames && s.agg.TrackCount() >= s.params.minFitTracks()
}

// fitLocked runs the single fit of this session and stores the labels of every track it covered
func (s *Session) fitLocked(resolved map[TrackID]Team) {
	s.state = readyState{}

	colors := s.agg.RepresentativeAll()
	if s.params.EnforceMinSamplesAtFit {
		for id := range colors {
			if s.agg.Count(id) < s.params.MinTrackSamples {
				delete(colors, id)
			}
		}
	}

	labels, model := Fit(colors, s.params)
	s.fits++

	if model == nil && s.params.RetryDegenerateFit {
		s.state = unfitState{}
		return
	}

	for id, team := range labels {
		s.labels[id] = team
		resolved[id] = team
	}

	if model == nil {
		s.state = exhaustedState{}
	} else {
		s.state = frozenState{model: *model}
	}
}

// resolveLocked labels a track first seen (or first sampled enough) after the fit.
// ok is false while the track has fewer than MinTrackSamples samples, the caller retries on a later frame.
func (s *Session) resolveLocked(id TrackID, model *Model) (Team, bool) {
	if s.agg.Count(id) < s.params.MinTrackSamples {
		return Unknown, false
	}

	c, ok := s.agg.Representative(id)
	if !ok {
		return Unknown, true
	}

	return Classify(c, model), true
}

// Label returns the stored team of a track. Tracks without a stored label are Unknown.
func (s *Session) Label(id TrackID) Team {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team, ok := s.labels[id]; ok {
		return team
	}

	return Unknown
}

// Labels returns a copy of the team assignment map
func (s *Session) Labels() map[TrackID]Team {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make(map[TrackID]Team, len(s.labels))
	for id, team := range s.labels {
		res[id] = team
	}

	return res
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.phase()
}

// Model returns a copy of the frozen model, ok is false before a successful fit
func (s *Session) Model() (Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state.(frozenState); ok {
		return Model{Centroids: slices.Clone(st.model.Centroids), Inertia: st.model.Inertia}, true
	}

	return Model{}, false
}

// FitCount returns how many fit attempts were made
func (s *Session) FitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fits
}

// Frames returns the number of processed frames
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frames
}

// SampleCount returns how many color samples a track has
func (s *Session) SampleCount(id TrackID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.agg.Count(id)
}
