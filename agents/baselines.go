package agents

import (
	"time"

	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
)

// RandomAgent splits one node chosen uniformly at random on every step
type RandomAgent struct {
	actionSpace types.ActionSpace
	rand        *rand.Rand
}

var _ types.Agent = &RandomAgent{}

func NewRandomAgent(actionSpace types.ActionSpace, seed uint64) *RandomAgent {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomAgent{
		actionSpace: actionSpace,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomAgent) Act(_ types.Observation) (types.Action, error) {
	action := r.actionSpace.DoNothingAction()
	return AgentsActionToEnvsAction(action, r.rand.Intn(r.actionSpace.NodeSplittingSize()))
}

func (r *RandomAgent) FeedReturn(_ types.Action, _ types.Observation, _ []float64, _ bool) error {
	return nil
}

// DoNothingAgent always plays the neutral action
type DoNothingAgent struct {
	actionSpace types.ActionSpace
}

var _ types.Agent = &DoNothingAgent{}

func NewDoNothingAgent(actionSpace types.ActionSpace) *DoNothingAgent {
	return &DoNothingAgent{actionSpace: actionSpace}
}

func (d *DoNothingAgent) Act(_ types.Observation) (types.Action, error) {
	return d.actionSpace.DoNothingAction(), nil
}

func (d *DoNothingAgent) FeedReturn(_ types.Action, _ types.Observation, _ []float64, _ bool) error {
	return nil
}
