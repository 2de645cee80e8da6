package types

import "gonum.org/v1/gonum/mat"

// ValueModel learns a value table from episode histories.
// Implementations: model.MonteCarlo, model.StateMonteCarlo,
// model.TemporalDifference, model.TemporalDifferenceLambda
type ValueModel interface {
	// Learn updates the table in place. A nil history is rejected with
	// ErrInvalidArgument, an empty one is a no-op.
	Learn(*History) error
	// IsMature reports if enough learning iterations have been performed
	// for the table to drive policy improvement
	IsMature() bool
	// ValueFunction returns the live table (states x actions).
	// Callers must not mutate it.
	ValueFunction() mat.Matrix
}

// TerminalResetter is implemented by value models that can zero
// out the value of a terminal state
type TerminalResetter interface {
	ResetState(state int)
}

// Policy maps states to actions
type Policy interface {
	GetAction(state int) int
	// Improve makes the policy greedy with respect to the value table
	Improve(mat.Matrix) error
	IsMature() bool
}
