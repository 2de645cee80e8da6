package types

// Environment is the simulator the agents are trained against.
// Reset is called at the start of every episode and after a game over.
type Environment interface {
	Reset() (Observation, error)
	// Step applies the action. When doSum is true the reward vector
	// is collapsed into a single component.
	Step(action Action, doSum bool) (Observation, []float64, bool, *Info, error)
	ActionSpace() ActionSpace
	ObservationSpace() ObservationSpace
}

// Observation of the grid that the agents perceive
type Observation interface {
	// One usage ratio per power line, 1.0 is full capacity
	LinesCapacityUsage() []float64
}

// Action understood by the environment. Sub-actions are independent,
// setting one of them leaves the others untouched.
type Action interface {
	NodeSplittingSubaction() []int
	SetNodeSplittingSubaction([]int) error
}

type ActionSpace interface {
	// A fresh action where every sub-action is neutral
	DoNothingAction() Action
	// Length of the node splitting sub-action
	NodeSplittingSize() int
}

type ObservationSpace interface {
	NumberOfLines() int
}

// Info is an informational message returned by the environment,
// it never aborts a run
type Info struct {
	Text string
}
