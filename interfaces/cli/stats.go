package cli

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"graphedit/domain/core/valueobjects"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <path>",
		Short: "Summarize a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := c.Graphs.Open(cmd.Context(), args[0])
			if err != nil && (c.Graphs.Aborted(err) || g.NodeCount() == 0) {
				return err
			}
			size, err := c.Files.Size(args[0])
			if err != nil {
				return err
			}
			st := c.Graphs.Stats(g)

			out := cmd.OutOrStdout()
			printf(out, "graph:       %s\n", g.Name())
			printf(out, "size:        %s\n", humanize.IBytes(uint64(size)))
			printf(out, "nodes:       %s\n", humanize.Comma(int64(st.Nodes)))
			printf(out, "edges:       %s (%d self-loops)\n", humanize.Comma(int64(st.Edges)), st.SelfLoops)
			printf(out, "components:  %d\n", st.Components)
			printf(out, "traits:      %s", humanize.Comma(int64(st.TraitCount())))
			var kinds []string
			for _, kind := range valueobjects.TraitKinds {
				kinds = append(kinds, kind.String()+"="+humanize.Comma(int64(st.Traits[kind])))
			}
			printf(out, " (%s)\n", strings.Join(kinds, ", "))
			if st.MaxDegree > 0 {
				printf(out, "max degree:  %d (%s)\n", st.MaxDegree, st.MaxDegreeAt)
			}
			if len(st.IsolatedNodes) > 0 {
				printf(out, "isolated:    %s\n", strings.Join(st.IsolatedNodes, ", "))
			}
			return nil
		},
	}
}
