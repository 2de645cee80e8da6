package model

import (
	"fmt"

	"github.com/zeu5/pownet-rl/types"
	"gonum.org/v1/gonum/mat"
)

// TemporalDifference is TD(0) over state action pairs.
// Learn takes a window of exactly two transitions, newest first:
//
//	[(s', a', _), (s, a, r)]
//	Q(s, a) <- Q(s, a) + alpha * (r + gamma * Q(s', a') - Q(s, a))
//
// The reward of the newest transition is not used.
type TemporalDifference struct {
	q *mat.Dense

	states       int
	actions      int
	learningRate float64
	discount     float64
	maturity
}

var _ types.ValueModel = &TemporalDifference{}
var _ types.TerminalResetter = &TemporalDifference{}

func NewTemporalDifference(c Config) (*TemporalDifference, error) {
	if err := c.validate(true); err != nil {
		return nil, err
	}
	return &TemporalDifference{
		q:            mat.NewDense(c.StateSpaceSize, c.ActionSpaceSize, nil),
		states:       c.StateSpaceSize,
		actions:      c.ActionSpaceSize,
		learningRate: c.LearningRate,
		discount:     c.Discount,
		maturity:     newMaturity(c),
	}, nil
}

func (t *TemporalDifference) Learn(h *types.History) error {
	if h == nil {
		return fmt.Errorf("temporal difference: nil history: %w", types.ErrInvalidArgument)
	}
	if h.Len() == 0 {
		return nil
	}
	if h.Len() != 2 {
		return fmt.Errorf("temporal difference: history of %d transitions, need 2: %w", h.Len(), types.ErrPreconditionViolation)
	}
	next, _ := h.Get(0)
	cur, _ := h.Get(1)
	for _, tr := range []types.Transition{next, cur} {
		if err := checkTransition(tr, t.states, t.actions); err != nil {
			return fmt.Errorf("temporal difference: %w", err)
		}
	}

	q := t.q.At(cur.State, cur.Action)
	q1 := t.q.At(next.State, next.Action)
	t.q.Set(cur.State, cur.Action, q+t.learningRate*(cur.Reward+t.discount*q1-q))

	t.tick()
	return nil
}

// ResetState zeroes the values of all the actions of a terminal state
func (t *TemporalDifference) ResetState(state int) {
	if state < 0 || state >= t.states {
		return
	}
	row := t.q.RawRowView(state)
	for i := range row {
		row[i] = 0
	}
}

func (t *TemporalDifference) ValueFunction() mat.Matrix {
	return t.q
}

// TemporalDifferenceLambda is reserved for TD(lambda). It keeps a zero
// table, never updates it and is never mature.
type TemporalDifferenceLambda struct {
	q *mat.Dense
}

var _ types.ValueModel = &TemporalDifferenceLambda{}

func NewTemporalDifferenceLambda(c Config) (*TemporalDifferenceLambda, error) {
	if err := c.validate(true); err != nil {
		return nil, err
	}
	return &TemporalDifferenceLambda{
		q: mat.NewDense(c.StateSpaceSize, c.ActionSpaceSize, nil),
	}, nil
}

func (t *TemporalDifferenceLambda) Learn(h *types.History) error {
	if h == nil {
		return fmt.Errorf("temporal difference lambda: nil history: %w", types.ErrInvalidArgument)
	}
	return nil
}

func (t *TemporalDifferenceLambda) IsMature() bool {
	return false
}

func (t *TemporalDifferenceLambda) ValueFunction() mat.Matrix {
	return t.q
}
