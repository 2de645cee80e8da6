package model

import (
	"fmt"

	"github.com/zeu5/pownet-rl/types"
	"gonum.org/v1/gonum/mat"
)

// MonteCarlo learns an action value table from complete episodes.
//
//	Q(s, a) <- Q(s, a) + alpha * (G(s, a) - Q(s, a))
//
// The update blends the whole table: pairs not visited in the episode
// have a target of zero and decay towards it.
type MonteCarlo struct {
	q       *mat.Dense
	returns *mat.Dense

	states       int
	actions      int
	learningRate float64
	discount     float64
	maturity
}

var _ types.ValueModel = &MonteCarlo{}

func NewMonteCarlo(c Config) (*MonteCarlo, error) {
	if err := c.validate(true); err != nil {
		return nil, err
	}
	return &MonteCarlo{
		q:            mat.NewDense(c.StateSpaceSize, c.ActionSpaceSize, nil),
		returns:      mat.NewDense(c.StateSpaceSize, c.ActionSpaceSize, nil),
		states:       c.StateSpaceSize,
		actions:      c.ActionSpaceSize,
		learningRate: c.LearningRate,
		discount:     c.Discount,
		maturity:     newMaturity(c),
	}, nil
}

// Learn consumes the history of an episode, most recent transition first.
// The return is accumulated backwards and the last write wins when a
// pair is visited more than once.
func (m *MonteCarlo) Learn(h *types.History) error {
	if h == nil {
		return fmt.Errorf("monte carlo: nil history: %w", types.ErrInvalidArgument)
	}
	if h.Len() == 0 {
		return nil
	}

	m.returns.Zero()
	cumulative := 0.0
	for i := 0; i < h.Len(); i++ {
		t, _ := h.Get(i)
		if err := checkTransition(t, m.states, m.actions); err != nil {
			return fmt.Errorf("monte carlo: %w", err)
		}
		cumulative += t.Reward + m.discount*cumulative
		m.returns.Set(t.State, t.Action, cumulative)
	}

	var delta mat.Dense
	delta.Sub(m.returns, m.q)
	delta.Scale(m.learningRate, &delta)
	m.q.Add(m.q, &delta)

	m.tick()
	return nil
}

func (m *MonteCarlo) ValueFunction() mat.Matrix {
	return m.q
}

// StateMonteCarlo is the state value flavour of MonteCarlo,
// the action of every transition is ignored
type StateMonteCarlo struct {
	v       *mat.VecDense
	returns *mat.VecDense

	states       int
	learningRate float64
	discount     float64
	maturity
}

var _ types.ValueModel = &StateMonteCarlo{}

func NewStateMonteCarlo(c Config) (*StateMonteCarlo, error) {
	if err := c.validate(false); err != nil {
		return nil, err
	}
	return &StateMonteCarlo{
		v:            mat.NewVecDense(c.StateSpaceSize, nil),
		returns:      mat.NewVecDense(c.StateSpaceSize, nil),
		states:       c.StateSpaceSize,
		learningRate: c.LearningRate,
		discount:     c.Discount,
		maturity:     newMaturity(c),
	}, nil
}

func (m *StateMonteCarlo) Learn(h *types.History) error {
	if h == nil {
		return fmt.Errorf("state monte carlo: nil history: %w", types.ErrInvalidArgument)
	}
	if h.Len() == 0 {
		return nil
	}

	m.returns.Zero()
	cumulative := 0.0
	for i := 0; i < h.Len(); i++ {
		t, _ := h.Get(i)
		if t.State < 0 || t.State >= m.states {
			return fmt.Errorf("state monte carlo: state %d out of range [0, %d): %w", t.State, m.states, types.ErrInvalidArgument)
		}
		cumulative += t.Reward + m.discount*cumulative
		m.returns.SetVec(t.State, cumulative)
	}

	var delta mat.VecDense
	delta.SubVec(m.returns, m.v)
	delta.ScaleVec(m.learningRate, &delta)
	m.v.AddVec(m.v, &delta)

	m.tick()
	return nil
}

// ValueFunction returns the state values as a column vector
func (m *StateMonteCarlo) ValueFunction() mat.Matrix {
	return m.v
}
