package types

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DefaultRewardBonus is added to the summed reward vector of every step
const DefaultRewardBonus = 5.0

type RunnerConfig struct {
	// Name of the experiment, used in summaries
	Name string
	// Run index, used in summaries
	Run         int
	RewardBonus float64
	Analyzers   []Analyzer
	Sinks       []EpisodeSink
	Logger      *slog.Logger
	// print a progress line after every episode
	Progress bool
	// status line of the experiment when running in parallel
	Output *ParallelOutput
}

// Runner drives an agent in an environment, episode by episode
type Runner struct {
	config      *RunnerConfig
	agent       Agent
	environment Environment
	logger      *slog.Logger
}

func NewRunner(config *RunnerConfig, agent Agent, environment Environment) *Runner {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		config:      config,
		agent:       agent,
		environment: environment,
		logger:      logger.With("experiment", config.Name),
	}
}

// Loop runs the given number of episodes, each of at most iterations
// steps, and returns the total reward (bonus included) obtained.
// The context is only checked between episodes.
func (r *Runner) Loop(ctx context.Context, episodes, iterations int) (float64, error) {
	total := 0.0
	var observation Observation

	for episode := 0; episode < episodes; episode++ {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		if observation == nil {
			obs, err := r.environment.Reset()
			if err != nil {
				return total, fmt.Errorf("resetting environment: %w", err)
			}
			observation = obs
		}

		summary := &EpisodeSummary{
			Experiment: r.config.Name,
			Run:        r.config.Run,
			Episode:    episode,
		}
		next, err := r.runEpisode(observation, iterations, summary)
		if err != nil {
			return total, fmt.Errorf("episode %d: %w", episode, err)
		}
		observation = next
		total += summary.Reward

		for _, a := range r.config.Analyzers {
			a.Analyze(r.config.Run, r.config.Name, summary)
		}
		for _, s := range r.config.Sinks {
			if err := s.Record(ctx, summary); err != nil {
				r.logger.Warn("failed to record episode summary", "episode", episode, "error", err)
			}
		}
		status := fmt.Sprintf("Exp:%s, Episode:%d/%d, Steps:%d, Reward:%.2f, Total:%.2f",
			r.config.Name, episode+1, episodes, summary.Steps, summary.Reward, total)
		if r.config.Output != nil {
			r.config.Output.TrySet(status)
		}
		if r.config.Progress {
			fmt.Printf("\r%s", status)
		}
	}
	if r.config.Progress {
		fmt.Println("")
	}
	return total, nil
}

// runEpisode plays from observation until done or until the iterations
// ceiling is crossed. After a game over the environment is reset right
// away and the fresh observation is returned to start the next episode,
// otherwise nil is returned and the next episode resets on its own.
func (r *Runner) runEpisode(observation Observation, iterations int, summary *EpisodeSummary) (Observation, error) {
	for step := 1; step <= iterations; step++ {
		r.logger.Debug("observation", "step", step, "usage", observation.LinesCapacityUsage())

		action, err := r.agent.Act(observation)
		if err != nil {
			return nil, fmt.Errorf("agent act: %w", err)
		}

		next, rewards, done, info, err := r.environment.Step(action, false)
		if err != nil {
			return nil, fmt.Errorf("environment step: %w", err)
		}
		if done {
			hint := ""
			if info != nil {
				hint = info.Text
			}
			r.logger.Warn("game over, resetting grid", "step", step, "hint", hint)
		} else if info != nil {
			r.logger.Warn(info.Text, "step", step)
		}

		summary.Steps = step
		summary.Reward += floats.Sum(rewards) + r.config.RewardBonus

		if err := r.agent.FeedReturn(action, next, rewards, done); err != nil {
			return nil, fmt.Errorf("agent feed return: %w", err)
		}

		r.logger.Debug("step", "action", action.NodeSplittingSubaction(), "reward", formatRewards(rewards), "done", done)

		if done {
			summary.Done = true
			reset, err := r.environment.Reset()
			if err != nil {
				return nil, fmt.Errorf("resetting environment: %w", err)
			}
			return reset, nil
		}
		observation = next
	}
	return nil, nil
}

func formatRewards(rewards []float64) string {
	parts := make([]string, len(rewards))
	for i, r := range rewards {
		parts[i] = fmt.Sprintf("%g", r)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
