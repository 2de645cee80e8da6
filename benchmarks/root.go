package benchmarks

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/pownet-rl/agents"
	"github.com/zeu5/pownet-rl/powergrid"
	"github.com/zeu5/pownet-rl/util"
)

var (
	episodes   int
	iterations int
	saveFile   string
	runs       int
	configFile string
	verbose    bool
	redisAddr  string

	lines  int
	splits int
	seed   uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "pownet-rl",
		Short:        "Tabular reinforcement learning agents for power grid operation",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&iterations, "iterations", 288, "Maximum number of steps of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML agent configuration")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Also push episode summaries to this redis server")

	rootCommand.PersistentFlags().IntVar(&lines, "lines", 6, "Number of lines of the grid")
	rootCommand.PersistentFlags().IntVar(&splits, "splits", 8, "Number of node splitting actions of the grid")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the grid and the agents, 0 seeds from the clock")

	// adding the subcommands here
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(RedisSummariesCommand())
	return rootCommand
}

func newLogger() *slog.Logger {
	return util.NewLogger(os.Stderr, verbose)
}

// agentConfig reads --config on top of the defaults, the global seed
// applies when the file does not set one
func agentConfig() (*agents.Config, error) {
	cfg := agents.DefaultConfig()
	if configFile != "" {
		c, err := agents.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func gridConfig(run int) *powergrid.Config {
	cfg := powergrid.DefaultConfig()
	cfg.Lines = lines
	cfg.Splits = splits
	// the steps ceiling ends the episode before the chronic does
	cfg.ChronicLength = iterations + 1
	if seed != 0 {
		cfg.Seed = seed + uint64(run)
	}
	return cfg
}
