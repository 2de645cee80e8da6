package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/pownet-rl/agents"
	"github.com/zeu5/pownet-rl/powergrid"
	"github.com/zeu5/pownet-rl/types"
)

func gridEnvironment(run int) (types.Environment, error) {
	return powergrid.NewGrid(gridConfig(run))
}

func customAgent(base *agents.Config, algorithm string) types.AgentConstructor {
	return func(env types.Environment) (types.Agent, error) {
		cfg := *base
		cfg.Algorithm = algorithm
		return agents.NewCustomAgent(env.ActionSpace(), env.ObservationSpace(), &cfg)
	}
}

// Compare trains every algorithm and the two baselines on the same
// grids and plots their rewards per episode
func Compare(ctx context.Context, base *agents.Config, sinks []types.EpisodeSink, parallelism int) error {
	c, err := types.NewComparison(&types.ComparisonConfig{
		Runs:        runs,
		Episodes:    episodes,
		Iterations:  iterations,
		RecordPath:  saveFile,
		RewardBonus: base.RewardBonus,
		Sinks:       sinks,
		Logger:      newLogger(),
		Progress:    !verbose,
		Parallelism: parallelism,
	})
	if err != nil {
		return err
	}
	c.AddAnalysis("Rewards", types.NewRewardAnalyzer(), types.RewardPlotter(saveFile))
	c.AddAnalysis("GameOvers", types.NewGameOverAnalyzer(), types.GameOverComparator(saveFile))

	c.AddExperiment(types.NewExperiment("MonteCarlo", customAgent(base, agents.MonteCarlo), gridEnvironment))
	c.AddExperiment(types.NewExperiment("SARSA", customAgent(base, agents.SARSA), gridEnvironment))
	c.AddExperiment(types.NewExperiment("QLearning", customAgent(base, agents.QLearning), gridEnvironment))
	c.AddExperiment(types.NewExperiment("Random", func(env types.Environment) (types.Agent, error) {
		return agents.NewRandomAgent(env.ActionSpace(), base.Seed), nil
	}, gridEnvironment))
	c.AddExperiment(types.NewExperiment("DoNothing", func(env types.Environment) (types.Agent, error) {
		return agents.NewDoNothingAgent(env.ActionSpace()), nil
	}, gridEnvironment))

	return c.Run(ctx)
}

func CompareCommand() *cobra.Command {
	var parallelism int
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the learning algorithms against random and do-nothing agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := agentConfig()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(saveFile, 0777); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			s, closeSinks, err := sinks(ctx, path.Join(saveFile, "episodes.csv"))
			if err != nil {
				return err
			}
			defer closeSinks()

			return Compare(ctx, cfg, s, parallelism)
		},
	}
	cmd.Flags().IntVarP(&parallelism, "parallel", "p", 1, "Number of experiments trained at the same time")
	return cmd
}
