package policies

import (
	"fmt"
	"math"
	"time"

	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMax samples actions with probability proportional to
// exp(Q(s, a) / temperature) over the last improved value table.
// Until the first improvement every action is equally likely.
type SoftMax struct {
	q           *mat.Dense
	actions     int
	temperature float64
	rand        rand.Source
}

var _ types.Policy = &SoftMax{}

func NewSoftMax(states, actions int, temperature float64, src rand.Source) (*SoftMax, error) {
	if states <= 0 || actions <= 0 {
		return nil, fmt.Errorf("softmax over %d states and %d actions: %w", states, actions, types.ErrInvalidArgument)
	}
	if temperature <= 0 {
		return nil, fmt.Errorf("temperature must be positive, got %f: %w", temperature, types.ErrInvalidArgument)
	}
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &SoftMax{
		q:           mat.NewDense(states, actions, nil),
		actions:     actions,
		temperature: temperature,
		rand:        src,
	}, nil
}

func (s *SoftMax) GetAction(state int) int {
	vals := make([]float64, s.actions)
	mat.Row(vals, state, s.q)
	floats.Scale(1/s.temperature, vals)
	// shift by the max to keep exp finite
	floats.AddConst(-floats.Max(vals), vals)
	for i, v := range vals {
		vals[i] = math.Exp(v)
	}
	i, ok := sampleuv.NewWeighted(vals, s.rand).Take()
	if !ok {
		return 0
	}
	return i
}

// Improve copies the value table the actions are sampled from
func (s *SoftMax) Improve(valueFn mat.Matrix) error {
	r, c := valueFn.Dims()
	sr, sc := s.q.Dims()
	if r != sr || c != sc {
		return fmt.Errorf("value function of %dx%d for a policy over %dx%d: %w", r, c, sr, sc, types.ErrInvalidArgument)
	}
	s.q.Copy(valueFn)
	return nil
}

func (s *SoftMax) IsMature() bool {
	return false
}
