package powergrid

import (
	"fmt"

	"github.com/zeu5/pownet-rl/types"
)

// Observation of the grid after a step
type Observation struct {
	Usage []float64 `json:"lines_capacity_usage"`
	Step  int       `json:"step"`
}

var _ types.Observation = &Observation{}

func (o *Observation) LinesCapacityUsage() []float64 {
	out := make([]float64, len(o.Usage))
	copy(out, o.Usage)
	return out
}

// Action on the grid: which nodes to split and which lines to switch
type Action struct {
	NodeSplitting []int `json:"node_splitting"`
	LineStatus    []int `json:"line_status"`
}

var _ types.Action = &Action{}

func (a *Action) NodeSplittingSubaction() []int {
	out := make([]int, len(a.NodeSplitting))
	copy(out, a.NodeSplitting)
	return out
}

func (a *Action) SetNodeSplittingSubaction(v []int) error {
	if len(v) != len(a.NodeSplitting) {
		return fmt.Errorf("node splitting sub-action of length %d, need %d: %w", len(v), len(a.NodeSplitting), types.ErrInvalidArgument)
	}
	copy(a.NodeSplitting, v)
	return nil
}

func (a *Action) LineStatusSubaction() []int {
	out := make([]int, len(a.LineStatus))
	copy(out, a.LineStatus)
	return out
}

func (a *Action) SetLineStatusSubaction(v []int) error {
	if len(v) != len(a.LineStatus) {
		return fmt.Errorf("line status sub-action of length %d, need %d: %w", len(v), len(a.LineStatus), types.ErrInvalidArgument)
	}
	copy(a.LineStatus, v)
	return nil
}

// Space sizes the observations and actions of a grid
type Space struct {
	Lines  int
	Splits int
}

var _ types.ActionSpace = &Space{}
var _ types.ObservationSpace = &Space{}

func NewSpace(lines, splits int) *Space {
	return &Space{Lines: lines, Splits: splits}
}

func (s *Space) DoNothingAction() types.Action {
	return &Action{
		NodeSplitting: make([]int, s.Splits),
		LineStatus:    make([]int, s.Lines),
	}
}

func (s *Space) NodeSplittingSize() int {
	return s.Splits
}

func (s *Space) NumberOfLines() int {
	return s.Lines
}
