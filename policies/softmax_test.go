package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestSoftMaxUniformBeforeImprove(t *testing.T) {
	p, err := NewSoftMax(2, 2, 1.0, rand.NewSource(3))
	require.NoError(t, err)

	counts := make([]int, 2)
	for i := 0; i < 10000; i++ {
		counts[p.GetAction(1)] += 1
	}
	assert.InDelta(t, 5000, counts[0], 500)
	assert.InDelta(t, 5000, counts[1], 500)
}

func TestSoftMaxPrefersBestAction(t *testing.T) {
	p, err := NewSoftMax(1, 3, 0.1, rand.NewSource(3))
	require.NoError(t, err)
	require.NoError(t, p.Improve(mat.NewDense(1, 3, []float64{0, 2, 0})))

	best := 0
	for i := 0; i < 1000; i++ {
		if p.GetAction(0) == 1 {
			best += 1
		}
	}
	assert.Greater(t, best, 990)
}

func TestSoftMaxLargeValuesStayFinite(t *testing.T) {
	p, err := NewSoftMax(1, 2, 0.01, rand.NewSource(3))
	require.NoError(t, err)
	require.NoError(t, p.Improve(mat.NewDense(1, 2, []float64{1000, 999})))
	assert.Equal(t, 0, p.GetAction(0))
}

func TestSoftMaxInvalid(t *testing.T) {
	_, err := NewSoftMax(1, 1, 0, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	p, err := NewSoftMax(2, 2, 1, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Improve(mat.NewDense(3, 2, nil)), types.ErrInvalidArgument)
	assert.False(t, p.IsMature())
}
