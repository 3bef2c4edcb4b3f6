package cli

import (
	"github.com/spf13/cobra"
)

func newFmtCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <in> [out]",
		Short: "Rewrite a graph file in canonical form",
		Long: "Rewrite a graph file with nodes first, then edges, and traits sorted by\n" +
			"kind and label. Without <out> the file is rewritten in place. A .gz\n" +
			"suffix on either side compresses or decompresses.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			dst := args[0]
			if len(args) == 2 {
				dst = args[1]
			}
			if err := c.Graphs.Convert(cmd.Context(), args[0], dst); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "formatted %s -> %s\n", args[0], dst)
			return nil
		},
	}
}
