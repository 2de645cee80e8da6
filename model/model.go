// Package model contains the tabular value models: Monte Carlo over
// whole episodes, single step Temporal Difference and a placeholder
// for TD(lambda).
//
// All tables are dense gonum matrices initialized to zero and are
// only mutated by Learn.
package model

import (
	"fmt"

	"github.com/zeu5/pownet-rl/types"
)

// Config is shared by all value models
type Config struct {
	StateSpaceSize  int
	ActionSpaceSize int
	LearningRate    float64
	Discount        float64
	// number of Learn iterations after which the model is mature
	MaturityThreshold int
	// reset the iteration counter every time maturity is reported
	ResetOnMature bool
}

func (c Config) validate(needActions bool) error {
	if c.StateSpaceSize <= 0 {
		return fmt.Errorf("state space size must be positive, got %d: %w", c.StateSpaceSize, types.ErrInvalidArgument)
	}
	if needActions && c.ActionSpaceSize <= 0 {
		return fmt.Errorf("action space size must be positive, got %d: %w", c.ActionSpaceSize, types.ErrInvalidArgument)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("learning rate must not be negative, got %f: %w", c.LearningRate, types.ErrInvalidArgument)
	}
	if c.MaturityThreshold < 0 {
		return fmt.Errorf("maturity threshold must not be negative, got %d: %w", c.MaturityThreshold, types.ErrInvalidArgument)
	}
	return nil
}

// maturity counts learning iterations against a threshold
type maturity struct {
	iterations    int
	threshold     int
	resetOnMature bool
}

func newMaturity(c Config) maturity {
	return maturity{
		threshold:     c.MaturityThreshold,
		resetOnMature: c.ResetOnMature,
	}
}

func (m *maturity) tick() {
	m.iterations += 1
}

func (m *maturity) IsMature() bool {
	if m.iterations < m.threshold {
		return false
	}
	if m.resetOnMature {
		m.iterations = 0
	}
	return true
}

// Iterations returns the number of learning iterations counted so far
func (m *maturity) Iterations() int {
	return m.iterations
}

func checkTransition(t types.Transition, states, actions int) error {
	if t.State < 0 || t.State >= states {
		return fmt.Errorf("state %d out of range [0, %d): %w", t.State, states, types.ErrInvalidArgument)
	}
	if t.Action < 0 || t.Action >= actions {
		return fmt.Errorf("action %d out of range [0, %d): %w", t.Action, actions, types.ErrInvalidArgument)
	}
	return nil
}
