// Package cli implements the graphedit command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graphedit/infrastructure/config"
	"graphedit/infrastructure/di"
	pkgerrors "graphedit/pkg/errors"
	"graphedit/pkg/observability"
)

// app carries the global flags and the configuration shared by subcommands
type app struct {
	configPath string
	logLevel   string
	env        string
	fs         afero.Fs

	cfg *config.Config
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	return newRoot(&app{fs: afero.NewOsFs()})
}

func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "graphedit",
		Short:         "Inspect, edit and convert .graph files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML or TOML)")
	flags.StringVar(&a.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	flags.StringVar(&a.env, "env", "", "environment: development, production or test")

	root.AddCommand(
		newDemoCommand(a),
		newCheckCommand(a),
		newStatsCommand(a),
		newShowCommand(a),
		newFmtCommand(a),
		newEditCommand(a),
		newSnapshotCommand(a),
		newWatchCommand(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	a := &app{fs: afero.NewOsFs()}
	err := newRoot(a).ExecuteContext(context.Background())
	if err == nil {
		return pkgerrors.ExitOK
	}
	logger, debug := a.errorLogger()
	defer func() { _ = logger.Sync() }()
	return pkgerrors.NewErrorHandler(logger, os.Stderr, debug).Handle(err)
}

// errorLogger uses the configured logger once configuration has loaded
func (a *app) errorLogger() (*zap.Logger, bool) {
	if a.cfg == nil {
		return zap.NewNop(), false
	}
	logger, err := observability.NewLogger(a.cfg)
	if err != nil {
		return zap.NewNop(), false
	}
	return logger, a.cfg.Logging.Level == "debug"
}

func (a *app) loadConfig() error {
	cfg, err := config.NewLoader(a.fs, config.Environment(a.env)).Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	return nil
}

// container wires the application; callers must run the cleanup
func (a *app) container() (*di.Container, func(), error) {
	return di.InitializeContainer(a.cfg)
}

func (a *app) snapshotContainer(ctx context.Context) (*di.Container, func(), error) {
	return di.InitializeSnapshotContainer(ctx, a.cfg)
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
