package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"graphedit/domain/core/aggregates"
	"graphedit/infrastructure/persistence/graphfile"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-check a graph file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			g, err := c.Graphs.Open(ctx, args[0])
			report(out, args[0], g, err)

			debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
			w, err := graphfile.NewWatcher(c.Files, args[0], debounce, c.Logger)
			if err != nil {
				return err
			}
			return w.Run(ctx, func(g *aggregates.Graph, err error) {
				report(out, args[0], g, err)
			})
		},
	}
}
