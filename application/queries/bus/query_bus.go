package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgerrors "graphedit/pkg/errors"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewQueryBus creates a query bus; a nil logger discards the debug trace
func NewQueryBus(logger *zap.Logger) *QueryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryBus{
		handlers: make(map[reflect.Type]QueryHandler),
		logger:   logger,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return pkgerrors.NewConflictError(fmt.Sprintf("handler already registered for query type %s", t.Name()))
	}

	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid %s", reflect.TypeOf(query).Name())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	start := time.Now()
	result, err := handler.Handle(ctx, query)
	b.logger.Debug("query answered",
		zap.String("query", reflect.TypeOf(query).Name()),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return result, err
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}
