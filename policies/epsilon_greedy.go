package policies

import (
	"fmt"
	"time"

	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EpsilonGreedy follows its table with probability 1-epsilon
// and picks a uniformly random action otherwise
type EpsilonGreedy struct {
	table   []int
	actions int
	epsilon float64
	rand    *rand.Rand
}

var _ types.Policy = &EpsilonGreedy{}

// NewEpsilonGreedy creates a policy over states x actions whose table is
// initialized uniformly at random. A nil source seeds from the clock.
func NewEpsilonGreedy(states, actions int, epsilon float64, src rand.Source) (*EpsilonGreedy, error) {
	if states <= 0 || actions <= 0 {
		return nil, fmt.Errorf("epsilon greedy over %d states and %d actions: %w", states, actions, types.ErrInvalidArgument)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("epsilon %f not in [0, 1]: %w", epsilon, types.ErrInvalidArgument)
	}
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	e := &EpsilonGreedy{
		table:   make([]int, states),
		actions: actions,
		epsilon: epsilon,
		rand:    rand.New(src),
	}
	for s := range e.table {
		e.table[s] = e.rand.Intn(actions)
	}
	return e, nil
}

func (e *EpsilonGreedy) GetAction(state int) int {
	if e.rand.Float64() < e.epsilon {
		return e.rand.Intn(e.actions)
	}
	return e.table[state]
}

// Improve replaces the table with the greedy action of every state,
// ties go to the lowest action index
func (e *EpsilonGreedy) Improve(valueFn mat.Matrix) error {
	r, c := valueFn.Dims()
	if r != len(e.table) || c != e.actions {
		return fmt.Errorf("value function of %dx%d for a policy over %dx%d: %w", r, c, len(e.table), e.actions, types.ErrInvalidArgument)
	}
	row := make([]float64, c)
	for s := range e.table {
		mat.Row(row, s, valueFn)
		e.table[s] = floats.MaxIdx(row)
	}
	return nil
}

func (e *EpsilonGreedy) IsMature() bool {
	return false
}

// Table returns a copy of the preferred action of every state
func (e *EpsilonGreedy) Table() []int {
	out := make([]int, len(e.table))
	copy(out, e.table)
	return out
}
