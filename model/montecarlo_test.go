package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/pownet-rl/types"
	"gonum.org/v1/gonum/mat"
)

const delta = 1e-9

func TestMonteCarloInitialization(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 10, ActionSpaceSize: 2})
	require.NoError(t, err)

	r, c := m.ValueFunction().Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 2, c)
	assert.True(t, mat.Equal(mat.NewDense(10, 2, nil), m.ValueFunction()))
}

func TestMonteCarloLearn(t *testing.T) {
	m, err := NewMonteCarlo(Config{
		StateSpaceSize:    5,
		ActionSpaceSize:   2,
		LearningRate:      1.0,
		Discount:          0.5,
		MaturityThreshold: 5,
	})
	require.NoError(t, err)

	history := types.NewHistory(
		types.Transition{State: 1, Action: 0, Reward: 1.0},
		types.Transition{State: 4, Action: 1, Reward: 1.5},
		types.Transition{State: 0, Action: 0, Reward: 0.9},
	)
	require.NoError(t, m.Learn(history))

	q := m.ValueFunction()
	assert.InDelta(t, 5.4, q.At(0, 0), delta)
	assert.InDelta(t, 1.0, q.At(1, 0), delta)
	assert.InDelta(t, 3.0, q.At(4, 1), delta)
	for s := 0; s < 5; s++ {
		for a := 0; a < 2; a++ {
			if (s == 0 && a == 0) || (s == 1 && a == 0) || (s == 4 && a == 1) {
				continue
			}
			assert.Equal(t, 0.0, q.At(s, a), "state %d action %d", s, a)
		}
	}
	assert.Equal(t, 1, m.Iterations())
}

func TestMonteCarloUnvisitedDecay(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 2, ActionSpaceSize: 1, LearningRate: 0.5})
	require.NoError(t, err)

	require.NoError(t, m.Learn(types.NewHistory(types.Transition{State: 0, Reward: 4})))
	assert.InDelta(t, 2.0, m.ValueFunction().At(0, 0), delta)

	// state 0 is not visited, its value is pulled towards zero
	require.NoError(t, m.Learn(types.NewHistory(types.Transition{State: 1, Reward: 2})))
	assert.InDelta(t, 1.0, m.ValueFunction().At(0, 0), delta)
	assert.InDelta(t, 1.0, m.ValueFunction().At(1, 0), delta)
}

func TestMonteCarloLastWriteWins(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 1, ActionSpaceSize: 1, LearningRate: 1})
	require.NoError(t, err)

	require.NoError(t, m.Learn(types.NewHistory(
		types.Transition{State: 0, Reward: 1},
		types.Transition{State: 0, Reward: 2},
	)))
	// the oldest visit carries the longest return
	assert.InDelta(t, 3.0, m.ValueFunction().At(0, 0), delta)
}

func TestMonteCarloNilHistory(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 1, ActionSpaceSize: 2, LearningRate: 0.4})
	require.NoError(t, err)

	err = m.Learn(nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Equal(t, 0, m.Iterations())
}

func TestMonteCarloEmptyHistory(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 2, ActionSpaceSize: 1, LearningRate: 1})
	require.NoError(t, err)
	require.NoError(t, m.Learn(types.NewHistory(types.Transition{State: 1, Reward: 3})))

	require.NoError(t, m.Learn(types.NewHistory()))
	assert.InDelta(t, 3.0, m.ValueFunction().At(1, 0), delta)
	assert.Equal(t, 1, m.Iterations())
}

func TestMonteCarloOutOfRange(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 2, ActionSpaceSize: 2, LearningRate: 1})
	require.NoError(t, err)

	err = m.Learn(types.NewHistory(
		types.Transition{State: 1, Action: 1, Reward: 3},
		types.Transition{State: 2, Action: 0, Reward: 3},
	))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, nil), m.ValueFunction()))
}

func TestMonteCarloMaturity(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 1, ActionSpaceSize: 1, LearningRate: 0.1, MaturityThreshold: 3})
	require.NoError(t, err)

	h := types.NewHistory(types.Transition{State: 0, Reward: 1})
	for i := 0; i < 2; i++ {
		require.NoError(t, m.Learn(h))
		assert.False(t, m.IsMature())
	}
	require.NoError(t, m.Learn(h))
	assert.True(t, m.IsMature())
	require.NoError(t, m.Learn(h))
	assert.True(t, m.IsMature())
	assert.True(t, m.IsMature())
}

func TestMonteCarloResetOnMature(t *testing.T) {
	m, err := NewMonteCarlo(Config{StateSpaceSize: 1, ActionSpaceSize: 1, LearningRate: 0.1, MaturityThreshold: 2, ResetOnMature: true})
	require.NoError(t, err)

	h := types.NewHistory(types.Transition{State: 0, Reward: 1})
	require.NoError(t, m.Learn(h))
	require.NoError(t, m.Learn(h))
	assert.True(t, m.IsMature())
	assert.False(t, m.IsMature())
	assert.Equal(t, 0, m.Iterations())
}

func TestStateMonteCarloInitialization(t *testing.T) {
	m, err := NewStateMonteCarlo(Config{StateSpaceSize: 10, LearningRate: 0.0, MaturityThreshold: 1})
	require.NoError(t, err)

	r, c := m.ValueFunction().Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 1, c)
	assert.True(t, mat.Equal(mat.NewVecDense(10, nil), m.ValueFunction()))
}

func TestStateMonteCarloLearn(t *testing.T) {
	m, err := NewStateMonteCarlo(Config{StateSpaceSize: 5, LearningRate: 0.1, MaturityThreshold: 5})
	require.NoError(t, err)

	history := types.NewHistory(
		types.Transition{State: 1, Reward: 1.0},
		types.Transition{State: 4, Reward: 1.5},
		types.Transition{State: 0, Reward: 0.9},
	)
	require.NoError(t, m.Learn(history))

	expected := []float64{0.34, 0.1, 0.0, 0.0, 0.25}
	v := m.ValueFunction()
	for s, e := range expected {
		assert.InDelta(t, e, v.At(s, 0), delta, "state %d", s)
	}
}

func TestStateMonteCarloNilAndEmpty(t *testing.T) {
	m, err := NewStateMonteCarlo(Config{StateSpaceSize: 3, LearningRate: 0.1})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Learn(nil), types.ErrInvalidArgument)
	assert.NoError(t, m.Learn(types.NewHistory()))
	assert.Equal(t, 0, m.Iterations())
	assert.True(t, mat.Equal(mat.NewVecDense(3, nil), m.ValueFunction()))
}

func TestConfigValidation(t *testing.T) {
	_, err := NewMonteCarlo(Config{StateSpaceSize: 0, ActionSpaceSize: 1})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = NewMonteCarlo(Config{StateSpaceSize: 1, ActionSpaceSize: 0})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = NewTemporalDifference(Config{StateSpaceSize: 1, ActionSpaceSize: 1, LearningRate: -1})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = NewStateMonteCarlo(Config{StateSpaceSize: 1, MaturityThreshold: -1})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
