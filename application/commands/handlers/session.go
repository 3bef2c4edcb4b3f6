// Package handlers applies edit commands to the graph held by a Session.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"graphedit/application/ports"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// Session holds the graph being edited and forwards its domain events
type Session struct {
	graph    *aggregates.Graph
	handlers []ports.EventHandler
	logger   *zap.Logger
}

// NewSession starts a session on a graph
func NewSession(graph *aggregates.Graph, logger *zap.Logger, handlers ...ports.EventHandler) *Session {
	return &Session{graph: graph, handlers: handlers, logger: logger}
}

// Graph returns the graph being edited
func (s *Session) Graph() *aggregates.Graph {
	return s.graph
}

// Publish hands every uncommitted event to the interested handlers and marks
// them committed. Handler failures are logged, not returned.
func (s *Session) Publish(ctx context.Context) {
	for _, event := range s.graph.GetUncommittedEvents() {
		for _, h := range s.handlers {
			if !h.CanHandle(event.GetEventType()) {
				continue
			}
			if err := h.Handle(ctx, event); err != nil {
				s.logger.Warn("Event handler failed",
					zap.String("type", event.GetEventType()),
					zap.Error(err))
			}
		}
	}
	s.graph.MarkEventsAsCommitted()
}

// node resolves a label to a live node
func (s *Session) node(label string) (valueobjects.NodeID, *entities.Node, error) {
	id, ok := s.graph.NodeByLabel(label)
	if !ok {
		return valueobjects.NoNode, nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", label))
	}
	node, _ := s.graph.Node(id)
	if node.IsExpired() {
		return valueobjects.NoNode, nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", label))
	}
	return id, node, nil
}

// edge resolves the index-th live edge between two labelled nodes
func (s *Session) edge(from, to string, index int) (valueobjects.EdgeID, *entities.Edge, valueobjects.NodeID, error) {
	a, _, err := s.node(from)
	if err != nil {
		return valueobjects.NoEdge, nil, valueobjects.NoNode, err
	}
	b, _, err := s.node(to)
	if err != nil {
		return valueobjects.NoEdge, nil, valueobjects.NoNode, err
	}
	between := s.graph.EdgesBetween(a, b)
	if index < 0 || index >= len(between) {
		return valueobjects.NoEdge, nil, valueobjects.NoNode, pkgerrors.NewNotFoundError(
			fmt.Sprintf("edge %d between %q and %q", index, from, to)).
			WithDetail("edges", len(between))
	}
	edge, _ := s.graph.Edge(between[index])
	return between[index], edge, a, nil
}

// traits resolves the trait frame a command targets
func (s *Session) traits(node string, ref *edgeRef) (*entities.TraitFrame, error) {
	if ref == nil {
		_, n, err := s.node(node)
		if err != nil {
			return nil, err
		}
		return n.Traits(), nil
	}
	_, e, _, err := s.edge(node, ref.to, ref.index)
	if err != nil {
		return nil, err
	}
	return e.Traits(), nil
}

type edgeRef struct {
	to    string
	index int
}
