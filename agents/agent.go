package agents

import (
	"fmt"

	"github.com/zeu5/pownet-rl/model"
	"github.com/zeu5/pownet-rl/policies"
	"github.com/zeu5/pownet-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CustomAgent learns a tabular value function over the overloaded
// lines of the grid and acts by splitting one node at a time.
//
// The reward of an action is only known one step later, so the agent
// keeps the last state and action between Act and FeedReturn.
// Monte Carlo agents learn once per episode, SARSA and Q-learning
// agents learn on every step.
type CustomAgent struct {
	config      *Config
	model       types.ValueModel
	policy      types.Policy
	history     *types.History
	actionSpace types.ActionSpace

	lines   int
	states  int
	actions int

	status     types.AgentState
	lastState  int
	lastAction int

	// SARSA commits to the action of the next state when learning
	pending       bool
	pendingState  int
	pendingAction int
}

var _ types.Agent = &CustomAgent{}

// NewCustomAgent sizes the tables from the spaces of the environment:
// 2^lines states and one action per node splitting index
func NewCustomAgent(actionSpace types.ActionSpace, observationSpace types.ObservationSpace, config *Config) (*CustomAgent, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	lines := observationSpace.NumberOfLines()
	if lines <= 0 || lines > MaxLines {
		return nil, fmt.Errorf("%d lines, need between 1 and %d: %w", lines, MaxLines, types.ErrInvalidArgument)
	}
	states := 1 << lines
	actions := actionSpace.NodeSplittingSize()

	mConfig := model.Config{
		StateSpaceSize:    states,
		ActionSpaceSize:   actions,
		LearningRate:      config.LearningRate,
		Discount:          config.Discount,
		MaturityThreshold: config.MaturityThreshold,
		ResetOnMature:     config.ResetOnMature,
	}
	var m types.ValueModel
	var err error
	switch config.Algorithm {
	case MonteCarlo:
		m, err = model.NewMonteCarlo(mConfig)
	case SARSA, QLearning:
		m, err = model.NewTemporalDifference(mConfig)
	case TemporalDiffLambda:
		m, err = model.NewTemporalDifferenceLambda(mConfig)
	}
	if err != nil {
		return nil, err
	}

	var src rand.Source
	if config.Seed != 0 {
		src = rand.NewSource(config.Seed)
	}
	var p types.Policy
	switch config.Policy {
	case EpsilonGreedyPolicy:
		p, err = policies.NewEpsilonGreedy(states, actions, config.Epsilon, src)
	case SoftMaxPolicy:
		p, err = policies.NewSoftMax(states, actions, config.Temperature, src)
	}
	if err != nil {
		return nil, err
	}

	return &CustomAgent{
		config:      config,
		model:       m,
		policy:      p,
		history:     types.NewHistory(),
		actionSpace: actionSpace,
		lines:       lines,
		states:      states,
		actions:     actions,
		status:      types.AwaitingAction,
	}, nil
}

// Act derives the state from the observation and returns the environment
// action with the node chosen by the policy split
func (a *CustomAgent) Act(observation types.Observation) (types.Action, error) {
	if a.status != types.AwaitingAction {
		return nil, fmt.Errorf("act while %s: %w", a.status, types.ErrOutOfOrder)
	}
	state, err := a.stateOf(observation)
	if err != nil {
		return nil, err
	}

	var action int
	if a.pending && a.pendingState == state {
		action = a.pendingAction
	} else {
		action = a.policy.GetAction(state)
	}
	a.pending = false

	envAction, err := AgentsActionToEnvsAction(a.actionSpace.DoNothingAction(), action)
	if err != nil {
		return nil, err
	}
	a.lastState = state
	a.lastAction = action
	a.status = types.AwaitingReturn
	return envAction, nil
}

// FeedReturn records the outcome of the last action and learns from it
// when the algorithm calls for it. The action argument is the one
// returned by the last Act.
func (a *CustomAgent) FeedReturn(_ types.Action, observation types.Observation, rewards []float64, done bool) error {
	if a.status != types.AwaitingReturn {
		return fmt.Errorf("feed return while %s: %w", a.status, types.ErrOutOfOrder)
	}
	a.status = types.AwaitingAction

	current := types.Transition{
		State:  a.lastState,
		Action: a.lastAction,
		Reward: floats.Sum(rewards) + a.config.RewardBonus,
	}

	switch a.config.Algorithm {
	case MonteCarlo, TemporalDiffLambda:
		a.history.Push(current)
		if done {
			return a.learn()
		}
		return nil
	}

	nextState, err := a.stateOf(observation)
	if err != nil {
		return err
	}
	nextAction := a.nextAction(nextState)

	a.history.Clear()
	a.history.Push(current)
	a.history.Push(types.Transition{State: nextState, Action: nextAction})
	if err := a.learn(); err != nil {
		return err
	}

	if done {
		if r, ok := a.model.(types.TerminalResetter); ok {
			r.ResetState(nextState)
		}
		a.pending = false
	}
	return nil
}

// stateOf rejects observations of a grid other than the one the
// tables were sized for
func (a *CustomAgent) stateOf(observation types.Observation) (int, error) {
	if observation != nil {
		if n := len(observation.LinesCapacityUsage()); n != a.lines {
			return 0, fmt.Errorf("observation of %d lines for an agent of %d: %w", n, a.lines, types.ErrInvalidArgument)
		}
	}
	return ObservationToState(observation, a.config.UsageCutoff)
}

// nextAction is the action the update bootstraps from: the on-policy
// choice for SARSA, the greedy one for Q-learning
func (a *CustomAgent) nextAction(state int) int {
	if a.config.Algorithm == QLearning {
		row := make([]float64, a.actions)
		mat.Row(row, state, a.model.ValueFunction())
		return floats.MaxIdx(row)
	}
	action := a.policy.GetAction(state)
	a.pending = true
	a.pendingState = state
	a.pendingAction = action
	return action
}

func (a *CustomAgent) learn() error {
	if err := a.model.Learn(a.history); err != nil {
		return fmt.Errorf("learning: %w", err)
	}
	if a.config.Algorithm == MonteCarlo || a.config.Algorithm == TemporalDiffLambda {
		a.history.Clear()
	}
	if a.model.IsMature() {
		if err := a.policy.Improve(a.model.ValueFunction()); err != nil {
			return fmt.Errorf("improving policy: %w", err)
		}
	}
	return nil
}

// ValueFunction returns the live value table of the agent
func (a *CustomAgent) ValueFunction() mat.Matrix {
	return a.model.ValueFunction()
}

// Policy returns the policy the agent acts with
func (a *CustomAgent) Policy() types.Policy {
	return a.policy
}

// Status returns where the agent is in the act/return cycle
func (a *CustomAgent) Status() types.AgentState {
	return a.status
}

// HistoryLen is the number of transitions waiting to be learned
func (a *CustomAgent) HistoryLen() int {
	return a.history.Len()
}

// Spaces returns the number of states and actions of the tables
func (a *CustomAgent) Spaces() (int, int) {
	return a.states, a.actions
}
