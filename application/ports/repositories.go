package ports

import (
	"context"
	"time"

	"graphedit/domain/core/aggregates"
	"graphedit/domain/events"
)

// GraphRepository defines the interface for graph persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type GraphRepository interface {
	// Load reads a graph by name. A partially readable graph is returned
	// together with the error describing what was skipped; the graph is nil
	// only when nothing could be read.
	Load(ctx context.Context, name string) (*aggregates.Graph, error)

	// Save persists a graph under a name (create or replace)
	Save(ctx context.Context, name string, graph *aggregates.Graph) error

	// List summarizes every stored graph
	List(ctx context.Context) ([]GraphSummary, error)

	// Delete removes a stored graph
	Delete(ctx context.Context, name string) error
}

// GraphSummary describes a stored graph without loading it into an editor
type GraphSummary struct {
	Name      string
	ID        string
	Nodes     int
	Edges     int
	Size      int64
	UpdatedAt time.Time
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}
