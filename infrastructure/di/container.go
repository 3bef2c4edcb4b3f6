// Package di wires the application together with google/wire.
// wire_gen.go is generated from the injectors in wire.go.
package di

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"graphedit/application/services"
	"graphedit/infrastructure/config"
	"graphedit/infrastructure/persistence/graphfile"
	"graphedit/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Fs          afero.Fs
	Reader      *graphfile.Reader
	Writer      *graphfile.Writer
	Files       *graphfile.Store
	Metrics     *observability.Collector
	Graphs      *services.GraphService
	Middlewares Middlewares
}
