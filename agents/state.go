package agents

import (
	"fmt"

	"github.com/zeu5/pownet-rl/types"
)

// DefaultUsageCutoff is the capacity usage above which a line is loaded
const DefaultUsageCutoff = 1.0

// MaxLines bounds the number of lines, states are 2^lines wide
const MaxLines = 20

// ObservationToState packs one bit per line, set when the line usage
// is above cutoff. The first line is the most significant bit.
func ObservationToState(observation types.Observation, cutoff float64) (int, error) {
	if observation == nil {
		return 0, fmt.Errorf("nil observation: %w", types.ErrInvalidArgument)
	}
	usage := observation.LinesCapacityUsage()
	if len(usage) > MaxLines {
		return 0, fmt.Errorf("%d lines, at most %d supported: %w", len(usage), MaxLines, types.ErrInvalidArgument)
	}
	state := 0
	for _, u := range usage {
		flag := 0
		if u > cutoff {
			flag = 1
		}
		state = (state << 1) | flag
	}
	return state, nil
}

// AgentsActionToEnvsAction marks the node splitting index agentsAction as
// active on action, leaving every other sub-action as it was
func AgentsActionToEnvsAction(action types.Action, agentsAction int) (types.Action, error) {
	size := len(action.NodeSplittingSubaction())
	if agentsAction < 0 || agentsAction >= size {
		return nil, fmt.Errorf("action %d out of range [0, %d): %w", agentsAction, size, types.ErrInvalidArgument)
	}
	act := make([]int, size)
	act[agentsAction] = 1
	if err := action.SetNodeSplittingSubaction(act); err != nil {
		return nil, err
	}
	return action, nil
}
