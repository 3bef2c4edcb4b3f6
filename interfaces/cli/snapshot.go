package cli

import (
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"graphedit/infrastructure/persistence/graphfile"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Keep graph versions in the SQLite snapshot store",
	}
	cmd.AddCommand(
		newSnapshotSaveCommand(a),
		newSnapshotLoadCommand(a),
		newSnapshotListCommand(a),
		newSnapshotRemoveCommand(a),
	)
	return cmd
}

func newSnapshotSaveCommand(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Store the current contents of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := a.snapshotContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := c.Graphs.Open(ctx, args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = graphfile.GraphName(args[0])
			}
			if err := c.Graphs.Snapshot(ctx, name, g); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "snapshot %s saved (%d nodes, %d edges)\n", name, g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "snapshot name (defaults to the file name)")
	return cmd
}

func newSnapshotLoadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name> <out>",
		Short: "Write the newest snapshot of a graph to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := a.snapshotContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := c.Graphs.Restore(ctx, args[0])
			if err != nil {
				return err
			}
			if err := c.Graphs.Save(ctx, args[1], g); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "snapshot %s written to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSnapshotListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the newest snapshot of every graph",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, cleanup, err := a.snapshotContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := c.Graphs.Snapshots(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(w, "NAME\tNODES\tEDGES\tSIZE\tSAVED\n")
			for _, s := range list {
				printf(w, "%s\t%d\t%d\t%s\t%s\n", s.Name, s.Nodes, s.Edges,
					humanize.IBytes(uint64(s.Size)), humanize.Time(s.UpdatedAt))
			}
			return w.Flush()
		},
	}
}

func newSnapshotRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete every snapshot of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := a.snapshotContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := c.Graphs.DropSnapshots(ctx, args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "snapshots of %s removed\n", args[0])
			return nil
		},
	}
}
