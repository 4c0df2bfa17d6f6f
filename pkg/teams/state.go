package teams

// Phase names the lifecycle step of a session's clustering model
type Phase string

const (
	//PhaseUnfit: still collecting samples
	PhaseUnfit Phase = "unfit"
	//PhaseReady: readiness conditions hold, fit is running
	PhaseReady Phase = "ready"
	//PhaseFrozen: a model was fit and won't change for the rest of the run
	PhaseFrozen Phase = "frozen"
	//PhaseExhausted: the one fit attempt found too few valid tracks, no model exists for this run
	PhaseExhausted Phase = "exhausted"
)

// clusterState is one of unfitState, readyState, frozenState, exhaustedState.
// Only frozenState carries a model.
type clusterState interface {
	phase() Phase
}

type unfitState struct{}

type readyState struct{}

type frozenState struct {
	model Model
}

type exhaustedState struct{}

func (unfitState) phase() Phase     { return PhaseUnfit }
func (readyState) phase() Phase     { return PhaseReady }
func (frozenState) phase() Phase    { return PhaseFrozen }
func (exhaustedState) phase() Phase { return PhaseExhausted }

// settled returns whether the state is terminal, and the frozen model if there is one
func settled(s clusterState) (*Model, bool) {
	switch st := s.(type) {
	case frozenState:
		return &st.model, true
	case exhaustedState:
		return nil, true
	default:
		return nil, false
	}
}
