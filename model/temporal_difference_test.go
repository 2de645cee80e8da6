package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/pownet-rl/types"
	"gonum.org/v1/gonum/mat"
)

func newTD(t *testing.T, states, actions int, alpha float64, threshold int, discount float64) *TemporalDifference {
	t.Helper()
	td, err := NewTemporalDifference(Config{
		StateSpaceSize:    states,
		ActionSpaceSize:   actions,
		LearningRate:      alpha,
		MaturityThreshold: threshold,
		Discount:          discount,
	})
	require.NoError(t, err)
	return td
}

func TestTemporalDifferenceInitialization(t *testing.T) {
	td := newTD(t, 10, 2, 0.0, 0, 0.5)
	assert.True(t, mat.Equal(mat.NewDense(10, 2, nil), td.ValueFunction()))
}

func TestTemporalDifferenceLearn(t *testing.T) {
	td := newTD(t, 2, 2, 1.0, 5, 0.5)

	require.NoError(t, td.Learn(types.NewHistory(
		types.Transition{State: 1, Action: 0, Reward: 0.0},
		types.Transition{State: 0, Action: 1, Reward: 1.5},
	)))
	q := td.ValueFunction()
	assert.Equal(t, 0.0, q.At(0, 0))
	assert.Equal(t, 0.0, q.At(1, 0))
	assert.InDelta(t, 1.5, q.At(0, 1), delta)
	assert.Equal(t, 0.0, q.At(1, 1))

	require.NoError(t, td.Learn(types.NewHistory(
		types.Transition{State: 0, Action: 1, Reward: 0.0},
		types.Transition{State: 1, Action: 0, Reward: 1.5},
	)))
	assert.Equal(t, 0.0, q.At(0, 0))
	assert.InDelta(t, 2.25, q.At(1, 0), delta)
	assert.InDelta(t, 1.5, q.At(0, 1), delta)
	assert.Equal(t, 0.0, q.At(1, 1))
}

func TestTemporalDifferenceNilHistory(t *testing.T) {
	td := newTD(t, 1, 2, 0.4, 3, 0.6)
	assert.ErrorIs(t, td.Learn(nil), types.ErrInvalidArgument)
}

func TestTemporalDifferenceEmptyHistoryDoesNothing(t *testing.T) {
	td := newTD(t, 1, 2, 0.4, 3, 0.6)

	assert.NoError(t, td.Learn(types.NewHistory()))
	assert.Equal(t, 0.0, td.ValueFunction().At(0, 0))
	assert.Equal(t, 0.0, td.ValueFunction().At(0, 1))
	assert.Equal(t, 0, td.Iterations())
}

func TestTemporalDifferenceWindowSize(t *testing.T) {
	td := newTD(t, 2, 2, 1.0, 1, 0.5)

	one := types.NewHistory(types.Transition{State: 0, Action: 1, Reward: 1})
	assert.ErrorIs(t, td.Learn(one), types.ErrPreconditionViolation)

	three := types.NewHistory(
		types.Transition{State: 0, Action: 1, Reward: 1},
		types.Transition{State: 1, Action: 1, Reward: 1},
		types.Transition{State: 0, Action: 0, Reward: 1},
	)
	assert.ErrorIs(t, td.Learn(three), types.ErrPreconditionViolation)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, nil), td.ValueFunction()))
	assert.False(t, td.IsMature())
}

func TestTemporalDifferenceMaturity(t *testing.T) {
	td := newTD(t, 2, 2, 0.1, 1, 0.5)
	assert.False(t, td.IsMature())

	td = newTD(t, 5, 2, 0.1, 1, 0.5)
	require.NoError(t, td.Learn(types.NewHistory(
		types.Transition{State: 1, Action: 0, Reward: 1.0},
		types.Transition{State: 4, Action: 0, Reward: 1.5},
	)))
	assert.True(t, td.IsMature())
}

func TestTemporalDifferenceResetState(t *testing.T) {
	td := newTD(t, 2, 2, 1.0, 0, 0.5)
	require.NoError(t, td.Learn(types.NewHistory(
		types.Transition{State: 0, Action: 0},
		types.Transition{State: 1, Action: 1, Reward: 2},
	)))
	require.Equal(t, 2.0, td.ValueFunction().At(1, 1))

	td.ResetState(1)
	assert.Equal(t, 0.0, td.ValueFunction().At(1, 1))
	// out of range is ignored
	td.ResetState(7)
}

func TestTemporalDifferenceLambdaIsStub(t *testing.T) {
	td, err := NewTemporalDifferenceLambda(Config{StateSpaceSize: 2, ActionSpaceSize: 2, LearningRate: 1, MaturityThreshold: 0})
	require.NoError(t, err)

	assert.ErrorIs(t, td.Learn(nil), types.ErrInvalidArgument)
	assert.NoError(t, td.Learn(types.NewHistory(
		types.Transition{State: 0, Action: 0, Reward: 10},
		types.Transition{State: 1, Action: 1, Reward: 10},
	)))
	assert.True(t, mat.Equal(mat.NewDense(2, 2, nil), td.ValueFunction()))
	assert.False(t, td.IsMature())
}
