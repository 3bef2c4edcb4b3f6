//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"graphedit/infrastructure/config"
)

// CoreSet provides everything except the graph service
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideFs,
	ProvideDomainConfig,
	ProvideReader,
	ProvideWriter,
	ProvideFileStore,
	ProvideMetrics,
	ProvideRecorder,
	ProvideInspector,
	ProvideMiddlewares,
	wire.Struct(new(Container), "*"),
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	CoreSet,
	ProvideGraphService,
)

// SnapshotSet adds the SQLite snapshot store
var SnapshotSet = wire.NewSet(
	CoreSet,
	ProvideSnapshotRepository,
	ProvideSnapshotGraphService,
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}

// InitializeSnapshotContainer creates a container whose graph service also
// reaches the snapshot store
func InitializeSnapshotContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SnapshotSet)
	return nil, nil, nil // Wire will replace this
}
