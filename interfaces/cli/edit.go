package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graphedit/application/commands"
	"graphedit/application/commands/bus"
	pkgerrors "graphedit/pkg/errors"
)

type editFlags struct {
	out       string
	purge     bool
	bare      bool
	x, y      float64
	edgeTo    string
	edgeIndex int
}

func newEditCommand(a *app) *cobra.Command {
	var f editFlags

	cmd := &cobra.Command{
		Use:   "edit <path> <op> [args...]",
		Short: "Apply one edit to a graph file",
		Long: `Apply one edit to a graph file and save it.

Operations:
  add [LABEL]                    create a node (auto label when omitted)
  link A B                       connect two nodes
  cut A B [INDEX]                cut the INDEX-th edge between A and B
  rm LABEL                       expire a node and cut its edges
  set LABEL KIND TRAIT VALUE     set a trait (KIND: Int, Double, String)
  unset LABEL TRAIT              remove a trait
  purge                          reclaim expired elements
  layout                         place nodes on a circle

set and unset address the edge from LABEL to --edge-to when it is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := parseEdit(args[1], args[2:], f)
			if err != nil {
				return err
			}

			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			g, err := c.Graphs.Open(ctx, args[0])
			if err != nil {
				if c.Graphs.Aborted(err) || pkgerrors.IsIO(err) {
					return err
				}
				if !pkgerrors.IsNotFound(err) {
					c.Logger.Warn("Editing graph with skipped records", zap.Error(err))
				}
			}

			b, session, err := c.Editor(g)
			if err != nil {
				return err
			}
			if err := b.Send(ctx, command); err != nil {
				return err
			}

			dst := args[0]
			if f.out != "" {
				dst = f.out
			}
			if err := c.Graphs.Save(ctx, dst, session.Graph()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s: %s applied (%d nodes, %d edges)\n",
				dst, args[1], session.Graph().NodeCount(), session.Graph().EdgeCount())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.out, "out", "o", "", "save to another file")
	flags.BoolVar(&f.purge, "purge", false, "reclaim removed elements immediately (rm, cut)")
	flags.BoolVar(&f.bare, "bare", false, "create the node without default traits (add)")
	flags.Float64Var(&f.x, "x", 0, "x coordinate of a new node (add)")
	flags.Float64Var(&f.y, "y", 0, "y coordinate of a new node (add)")
	flags.StringVar(&f.edgeTo, "edge-to", "", "target the edge to this node (set, unset)")
	flags.IntVar(&f.edgeIndex, "edge-index", 0, "which edge to --edge-to (set, unset)")
	return cmd
}

// parseEdit turns an operation and its arguments into a command
func parseEdit(op string, args []string, f editFlags) (bus.Command, error) {
	want := func(min, max int) error {
		if len(args) < min || len(args) > max {
			return pkgerrors.NewValidationError(fmt.Sprintf("%s takes %d to %d arguments, got %d", op, min, max, len(args)))
		}
		return nil
	}
	var edge *commands.EdgeRef
	if f.edgeTo != "" {
		edge = &commands.EdgeRef{To: f.edgeTo, Index: f.edgeIndex}
	}

	switch op {
	case "add":
		if err := want(0, 1); err != nil {
			return nil, err
		}
		cmd := commands.CreateNodeCommand{X: f.x, Y: f.y, Bare: f.bare}
		if len(args) == 1 {
			cmd.Label = args[0]
		}
		return cmd, nil
	case "link":
		if err := want(2, 2); err != nil {
			return nil, err
		}
		return commands.LinkNodesCommand{From: args[0], To: args[1]}, nil
	case "cut":
		if err := want(2, 3); err != nil {
			return nil, err
		}
		cmd := commands.CutEdgeCommand{From: args[0], To: args[1], Purge: f.purge}
		if len(args) == 3 {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, pkgerrors.NewValidationError("edge index must be a number: " + args[2])
			}
			cmd.Index = index
		}
		return cmd, nil
	case "rm":
		if err := want(1, 1); err != nil {
			return nil, err
		}
		return commands.RemoveNodeCommand{Label: args[0], Purge: f.purge}, nil
	case "set":
		if err := want(4, 4); err != nil {
			return nil, err
		}
		return commands.SetTraitCommand{Node: args[0], Edge: edge, Kind: args[1], Trait: args[2], Value: args[3]}, nil
	case "unset":
		if err := want(2, 2); err != nil {
			return nil, err
		}
		return commands.UnsetTraitCommand{Node: args[0], Edge: edge, Trait: args[1]}, nil
	case "purge":
		if err := want(0, 0); err != nil {
			return nil, err
		}
		return commands.PurgeCommand{}, nil
	case "layout":
		if err := want(0, 0); err != nil {
			return nil, err
		}
		return commands.LayoutCommand{}, nil
	default:
		return nil, pkgerrors.NewValidationError("unknown edit operation: " + op)
	}
}
