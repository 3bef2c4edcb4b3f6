package cli

import (
	"github.com/spf13/cobra"

	"graphedit/application/queries"
	"graphedit/application/queries/bus"
	"graphedit/application/queries/handlers"
)

func newShowCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show <path> [LABEL]",
		Short: "List the nodes of a graph, or one node with its traits and links",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			g, err := c.Graphs.Open(ctx, args[0])
			if err != nil && c.Graphs.Aborted(err) {
				return err
			}
			qb := bus.NewQueryBus(c.Logger)
			if err := handlers.NewGraphQueries(g).Register(qb); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				res, err := qb.Ask(ctx, queries.ListNodesQuery{IncludeExpired: all})
				if err != nil {
					return err
				}
				for _, n := range res.([]queries.NodeView) {
					printf(out, "%s\t(%.3g, %.3g)\tdegree %d\t%d traits\n", n.Label, n.X, n.Y, n.Degree, len(n.Traits))
				}
				return nil
			}

			res, err := qb.Ask(ctx, queries.GetNodeQuery{Label: args[1]})
			if err != nil {
				return err
			}
			n := res.(queries.NodeView)
			printf(out, "%s (%s) at (%.3g, %.3g)\n", n.Label, n.State, n.X, n.Y)
			for _, t := range n.Traits {
				printf(out, "  %s %s = %s\n", t.Kind, t.Label, t.Value)
			}
			for _, l := range n.Links {
				printf(out, "  -> %s\n", l.Neighbor)
				for _, t := range l.Traits {
					printf(out, "     %s %s = %s\n", t.Kind, t.Label, t.Value)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include expired nodes")
	return cmd
}
