package types

// Agent acts on observations and learns from the returns that follow.
// The two calls alternate: Act, then FeedReturn with the outcome of
// the returned action.
type Agent interface {
	Act(Observation) (Action, error)
	// FeedReturn passes the action applied, the consequent observation,
	// the per-component reward vector and whether the episode ended
	FeedReturn(action Action, observation Observation, rewards []float64, done bool) error
}

// AgentState is the position of an agent in the act/return cycle
type AgentState int

const (
	AwaitingAction AgentState = iota
	AwaitingReturn
)

func (s AgentState) String() string {
	switch s {
	case AwaitingAction:
		return "AwaitingAction"
	case AwaitingReturn:
		return "AwaitingReturn"
	default:
		return "Unknown"
	}
}
