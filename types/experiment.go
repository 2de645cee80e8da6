package types

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
)

// AgentConstructor builds a fresh agent for the environment of a run
type AgentConstructor func(Environment) (Agent, error)

// EnvironmentConstructor builds the environment of a run
type EnvironmentConstructor func(run int) (Environment, error)

// Experiment pairs an agent with the environment it is trained in
type Experiment struct {
	Name     string
	newAgent AgentConstructor
	newEnv   EnvironmentConstructor
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, agent AgentConstructor, env EnvironmentConstructor) *Experiment {
	return &Experiment{
		Name:     name,
		newAgent: agent,
		newEnv:   env,
	}
}

type experimentRunConfig struct {
	CurrentRun  int
	Episodes    int
	Iterations  int
	RewardBonus float64
	Analyzers   []Analyzer
	Sinks       []EpisodeSink
	Logger      *slog.Logger
	Progress    bool
	Output      *ParallelOutput
}

// Run trains a fresh agent for the configured number of episodes
// and returns the total reward obtained
func (e *Experiment) Run(ctx context.Context, rConfig *experimentRunConfig) (float64, error) {
	env, err := e.newEnv(rConfig.CurrentRun)
	if err != nil {
		return 0, fmt.Errorf("creating environment: %w", err)
	}
	agent, err := e.newAgent(env)
	if err != nil {
		return 0, fmt.Errorf("creating agent: %w", err)
	}
	runner := NewRunner(&RunnerConfig{
		Name:        e.Name,
		Run:         rConfig.CurrentRun,
		RewardBonus: rConfig.RewardBonus,
		Analyzers:   rConfig.Analyzers,
		Sinks:       rConfig.Sinks,
		Logger:      rConfig.Logger,
		Progress:    rConfig.Progress,
		Output:      rConfig.Output,
	}, agent, env)
	return runner.Loop(ctx, rConfig.Episodes, rConfig.Iterations)
}

// Generic Dataset that contains information after processing the episodes
type DataSet interface{}

// Analyzer compresses the episode summaries of an experiment to a DataSet
type Analyzer interface {
	// run, experiment, summary
	Analyze(int, string, *EpisodeSummary)
	DataSet() DataSet
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, total episodes, experiment names, datasets
type Comparator func(int, int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(_, _ int, _ []string, _ []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs       int // number of runs
	Episodes   int // number of episodes
	Iterations int // steps ceiling of an episode

	RecordPath  string // path to store the results
	RewardBonus float64

	Sinks    []EpisodeSink
	Logger   *slog.Logger
	Progress bool
	// experiments run at the same time, 0 or 1 runs them one after the other
	Parallelism int
}

// Comparison contains the different experiments to compare.
// The episodes of every experiment are analyzed and the
// datasets compared at the end of each run
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) (*Comparison, error) {
	if config.RecordPath != "" {
		if err := os.MkdirAll(config.RecordPath, 0777); err != nil {
			return nil, err
		}
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}, nil
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return err
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			names[i] = e.Name
		}

		if c.cConfig.Parallelism > 1 {
			collected, err := c.runParallel(ctx, run)
			if err != nil {
				return err
			}
			for name, a := range c.analyzers {
				for i, summaries := range collected {
					for _, s := range summaries {
						a.Analyze(run, names[i], s)
					}
					datasets[name][i] = a.DataSet()
					a.Reset()
				}
			}
		} else {
			for i, e := range c.Experiments {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if _, err := e.Run(ctx, c.prepareRunConfig(run)); err != nil {
					return fmt.Errorf("experiment %s: %w", e.Name, err)
				}
				for name, a := range c.analyzers {
					datasets[name][i] = a.DataSet()
					a.Reset()
				}
			}
		}
		for name, comp := range c.comparators {
			comp(run, c.cConfig.Episodes, names, datasets[name])
		}
	}
	return nil
}

func (c *Comparison) prepareRunConfig(run int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:  run,
		Episodes:    c.cConfig.Episodes,
		Iterations:  c.cConfig.Iterations,
		RewardBonus: c.cConfig.RewardBonus,
		Analyzers:   make([]Analyzer, 0, len(c.analyzers)),
		Sinks:       c.cConfig.Sinks,
		Logger:      c.cConfig.Logger,
		Progress:    c.cConfig.Progress,
	}
	for _, a := range c.analyzers {
		rCfg.Analyzers = append(rCfg.Analyzers, a)
	}
	return rCfg
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}

	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["iterations"] = cfg.Iterations
	out["reward_bonus"] = cfg.RewardBonus
	out["parallelism"] = cfg.Parallelism

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}
