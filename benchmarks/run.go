package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/pownet-rl/agents"
	"github.com/zeu5/pownet-rl/powergrid"
	"github.com/zeu5/pownet-rl/types"
)

// Run trains one custom agent on the synthetic grid and returns the
// total reward of all the episodes
func Run(ctx context.Context, cfg *agents.Config, gridCfg *powergrid.Config, sinks []types.EpisodeSink) (float64, error) {
	grid, err := powergrid.NewGrid(gridCfg)
	if err != nil {
		return 0, err
	}
	agent, err := agents.NewCustomAgent(grid.ActionSpace(), grid.ObservationSpace(), cfg)
	if err != nil {
		return 0, err
	}
	runner := types.NewRunner(&types.RunnerConfig{
		Name:        cfg.Algorithm,
		RewardBonus: cfg.RewardBonus,
		Sinks:       sinks,
		Logger:      newLogger(),
		Progress:    !verbose,
	}, agent, grid)
	return runner.Loop(ctx, episodes, iterations)
}

func RunCommand() *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train one agent on the synthetic grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := agentConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("algorithm") {
				cfg.Algorithm = algorithm
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if err := os.MkdirAll(saveFile, 0777); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			stop, err := startProfiling()
			if err != nil {
				return err
			}
			defer stop()

			s, closeSinks, err := sinks(ctx, path.Join(saveFile, "episodes.csv"))
			if err != nil {
				return err
			}
			defer closeSinks()

			total, err := Run(ctx, cfg, gridConfig(0), s)
			if err != nil {
				return err
			}
			fmt.Printf("Total reward: %.2f\n", total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", agents.MonteCarlo, "One of monte-carlo, sarsa, q-learning, td-lambda")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	cmd.Flags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	return cmd
}
