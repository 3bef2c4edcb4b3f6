package di

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"graphedit/application/commands/bus"
	"graphedit/application/commands/handlers"
	"graphedit/application/services"
	domainconfig "graphedit/domain/config"
	"graphedit/domain/core/aggregates"
	"graphedit/infrastructure/config"
	"graphedit/infrastructure/persistence/graphfile"
	"graphedit/infrastructure/persistence/sqlite"
	"graphedit/pkg/observability"
)

// Middlewares is the command pipeline applied to every editor bus
type Middlewares []bus.Middleware

// ProvideLogger creates the logger; the cleanup flushes buffered entries
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideFs returns the filesystem graphs are read from
func ProvideFs() afero.Fs {
	return afero.NewOsFs()
}

// ProvideDomainConfig exposes the domain section of the configuration
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return &cfg.Domain
}

// ProvideReader creates the graph file reader
func ProvideReader(logger *zap.Logger, dcfg *domainconfig.DomainConfig) *graphfile.Reader {
	return graphfile.NewReader(logger, dcfg)
}

// ProvideWriter creates the graph file writer
func ProvideWriter(logger *zap.Logger) *graphfile.Writer {
	return graphfile.NewWriter(logger)
}

// ProvideFileStore creates the graph file store rooted at Storage.Root
func ProvideFileStore(fs afero.Fs, cfg *config.Config, reader *graphfile.Reader, writer *graphfile.Writer, logger *zap.Logger) *graphfile.Store {
	return graphfile.NewStore(fs, cfg.Storage.Root, reader, writer, logger)
}

// ProvideSnapshotRepository opens the SQLite snapshot store; the cleanup closes it
func ProvideSnapshotRepository(ctx context.Context, cfg *config.Config, reader *graphfile.Reader, writer *graphfile.Writer, logger *zap.Logger) (*sqlite.GraphRepository, func(), error) {
	repo, err := sqlite.Open(ctx, cfg.Storage.SnapshotDB, reader, writer, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close snapshot store", zap.Error(err))
		}
	}, nil
}

// ProvideMetrics creates the collector. When a textfile path is configured
// the cleanup writes the final values there.
func ProvideMetrics(cfg *config.Config, logger *zap.Logger) (*observability.Collector, func()) {
	collector := observability.NewCollector(cfg.Metrics.Namespace)
	return collector, func() {
		if !cfg.Metrics.Enabled || cfg.Metrics.TextfilePath == "" {
			return
		}
		if err := collector.WriteToTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("Failed to write metrics", zap.Error(err))
		}
	}
}

// ProvideRecorder adapts the collector to the graph service
func ProvideRecorder(c *observability.Collector) services.Recorder {
	return c
}

// ProvideInspector classifies reader diagnostics
func ProvideInspector() services.Inspector {
	return graphfile.Count
}

// ProvideGraphService creates the graph service without a snapshot store
func ProvideGraphService(store *graphfile.Store, inspect services.Inspector, rec services.Recorder, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(store, nil, inspect, rec, logger)
}

// ProvideSnapshotGraphService creates the graph service backed by both stores
func ProvideSnapshotGraphService(store *graphfile.Store, snapshots *sqlite.GraphRepository, inspect services.Inspector, rec services.Recorder, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(store, snapshots, inspect, rec, logger)
}

// ProvideMiddlewares builds the command pipeline: validation, logging, timing
func ProvideMiddlewares(logger *zap.Logger, c *observability.Collector) Middlewares {
	return Middlewares{
		bus.ValidationMiddleware(),
		bus.LoggingMiddleware(logger),
		bus.TimingMiddleware(func(name string, d time.Duration, err error) {
			c.RecordCommand(name, d, err)
		}),
	}
}

// Editor starts an edit session on g and returns the bus its commands go through
func (c *Container) Editor(g *aggregates.Graph) (*bus.CommandBus, *handlers.Session, error) {
	session := handlers.NewSession(g, c.Logger, observability.NewEventRecorder(c.Metrics))
	b := bus.NewCommandBus(c.Middlewares...)
	if err := handlers.NewGraphHandlers(session, c.Logger).Register(b); err != nil {
		return nil, nil, err
	}
	return b, session, nil
}
