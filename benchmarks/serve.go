package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/pownet-rl/agents"
	"github.com/zeu5/pownet-rl/powergrid"
	"github.com/zeu5/pownet-rl/server"
)

// ServeCommand exposes a custom agent over HTTP for an external simulator
func ServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a custom agent over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := agentConfig()
			if err != nil {
				return err
			}
			space := powergrid.NewSpace(lines, splits)
			agent, err := agents.NewCustomAgent(space, space, cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			s := server.NewAgentServer(fmt.Sprintf("localhost:%d", port), agent, space, newLogger())
			s.Start(ctx)
			fmt.Printf("Serving %s agent on %s\n", cfg.Algorithm, s.Addr)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 7074, "Port to listen on")
	return cmd
}
