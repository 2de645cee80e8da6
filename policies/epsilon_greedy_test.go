package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestEpsilonGreedyInitialTableInRange(t *testing.T) {
	p, err := NewEpsilonGreedy(64, 3, 0.1, rand.NewSource(1))
	require.NoError(t, err)
	for s, a := range p.Table() {
		assert.True(t, a >= 0 && a < 3, "state %d has action %d", s, a)
	}
}

func TestEpsilonGreedyImprove(t *testing.T) {
	p, err := NewEpsilonGreedy(3, 3, 0.0, rand.NewSource(1))
	require.NoError(t, err)

	q := mat.NewDense(3, 3, []float64{
		0.1, 0.5, 0.2,
		-1, -2, -0.5,
		0.3, 0.3, 0.1, // tie goes to the lowest index
	})
	require.NoError(t, p.Improve(q))
	assert.Equal(t, []int{1, 2, 0}, p.Table())

	// all zero rows pick the first action
	require.NoError(t, p.Improve(mat.NewDense(3, 3, nil)))
	assert.Equal(t, []int{0, 0, 0}, p.Table())
}

func TestEpsilonGreedyImproveDimensionMismatch(t *testing.T) {
	p, err := NewEpsilonGreedy(3, 2, 0.0, rand.NewSource(1))
	require.NoError(t, err)
	before := p.Table()

	assert.ErrorIs(t, p.Improve(mat.NewDense(2, 2, nil)), types.ErrInvalidArgument)
	assert.ErrorIs(t, p.Improve(mat.NewVecDense(3, nil)), types.ErrInvalidArgument)
	assert.Equal(t, before, p.Table())
}

func TestEpsilonGreedyExploits(t *testing.T) {
	p, err := NewEpsilonGreedy(2, 4, 0.0, rand.NewSource(7))
	require.NoError(t, err)
	require.NoError(t, p.Improve(mat.NewDense(2, 4, []float64{
		0, 0, 1, 0,
		0, 0, 0, 1,
	})))

	for i := 0; i < 1000; i++ {
		assert.Equal(t, 2, p.GetAction(0))
		assert.Equal(t, 3, p.GetAction(1))
	}
}

func TestEpsilonGreedyExploresUniformly(t *testing.T) {
	actions := 4
	draws := 40000
	p, err := NewEpsilonGreedy(1, actions, 1.0, rand.NewSource(11))
	require.NoError(t, err)

	counts := make([]int, actions)
	for i := 0; i < draws; i++ {
		counts[p.GetAction(0)] += 1
	}
	expected := float64(draws) / float64(actions)
	for a, c := range counts {
		assert.InDelta(t, expected, float64(c), 0.05*expected, "action %d", a)
	}
}

func TestEpsilonGreedyInvalid(t *testing.T) {
	_, err := NewEpsilonGreedy(0, 2, 0.1, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = NewEpsilonGreedy(2, 2, 1.5, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	p, err := NewEpsilonGreedy(2, 2, 0.5, nil)
	require.NoError(t, err)
	assert.False(t, p.IsMature())
}
