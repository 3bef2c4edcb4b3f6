package cli

import (
	"io"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"graphedit/domain/core/aggregates"
	"graphedit/infrastructure/persistence/graphfile"
	pkgerrors "graphedit/pkg/errors"
)

func newCheckCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <path|dir>...",
		Short: "Load graph files and report their diagnostics",
		Long: "Load every named graph file, or every graph file found under a named\n" +
			"directory (honouring .gitignore and .graphignore), and report what\n" +
			"the reader skipped. Fails when a file could not be read completely.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.container()
			if err != nil {
				return err
			}
			defer cleanup()

			var paths []string
			for _, arg := range args {
				isDir, err := afero.IsDir(c.Fs, c.Files.Path(arg))
				if err != nil || !isDir {
					paths = append(paths, arg)
					continue
				}
				found, err := c.Files.Scan(c.Files.Path(arg))
				if err != nil {
					return err
				}
				// scanned paths already include the store root
				for _, f := range found {
					abs, err := filepath.Abs(f)
					if err != nil {
						return err
					}
					paths = append(paths, abs)
				}
			}

			var failures *multierror.Error
			out := cmd.OutOrStdout()
			for _, path := range paths {
				g, err := c.Graphs.Open(cmd.Context(), path)
				report(out, path, g, err)
				if err == nil {
					continue
				}
				if strict || c.Graphs.Aborted(err) || pkgerrors.IsNotFound(err) || pkgerrors.IsIO(err) {
					failures = multierror.Append(failures, pkgerrors.NewFormatError(path+" did not pass the check"))
				}
			}
			printf(out, "%d file(s) checked\n", len(paths))
			return failures.ErrorOrNil()
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat skipped records as failures")
	return cmd
}

// report prints one line per file plus one per diagnostic
func report(out io.Writer, path string, g *aggregates.Graph, err error) {
	switch {
	case err == nil:
		printf(out, "%s: ok (%d nodes, %d edges)\n", path, g.NodeCount(), g.EdgeCount())
		return
	case graphfile.IsAborted(err):
		printf(out, "%s: aborted after %d nodes, %d edges\n", path, g.NodeCount(), g.EdgeCount())
	case len(graphfile.Diagnostics(err)) == 0:
		printf(out, "%s: %v\n", path, err)
		return
	default:
		printf(out, "%s: read with skipped records (%d nodes, %d edges)\n", path, g.NodeCount(), g.EdgeCount())
	}
	for _, d := range graphfile.Diagnostics(err) {
		severity := "warning"
		if d.Fatal {
			severity = "error"
		}
		printf(out, "  %s: line %d: %v\n", severity, d.Line, d.Err)
	}
}
