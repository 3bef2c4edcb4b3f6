package cli

import (
	"github.com/spf13/cobra"

	"graphedit/application/services"
)

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo <out>",
		Short: "Write the built-in demo graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := services.DemoGraph(&a.cfg.Domain)
			if err != nil {
				return err
			}
			if err := c.Graphs.Save(cmd.Context(), args[0], g); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "wrote %s: %d nodes, %d edges\n", args[0], g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
}
