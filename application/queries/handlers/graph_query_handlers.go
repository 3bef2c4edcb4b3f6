package handlers

import (
	"context"
	"fmt"

	"graphedit/application/queries"
	"graphedit/application/queries/bus"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// GraphQueries answers read-only queries against one graph
type GraphQueries struct {
	graph *aggregates.Graph
}

// NewGraphQueries creates the query handlers for a graph
func NewGraphQueries(g *aggregates.Graph) *GraphQueries {
	return &GraphQueries{graph: g}
}

// Register binds each query type to its handler on the bus
func (h *GraphQueries) Register(b *bus.QueryBus) error {
	if err := b.Register(queries.GetNodeQuery{}, bus.QueryHandlerFunc(h.getNode)); err != nil {
		return err
	}
	return b.Register(queries.ListNodesQuery{}, bus.QueryHandlerFunc(h.listNodes))
}

func (h *GraphQueries) getNode(_ context.Context, q bus.Query) (interface{}, error) {
	query := q.(queries.GetNodeQuery)
	id, ok := h.graph.NodeByLabel(query.Label)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", query.Label))
	}
	node, _ := h.graph.Node(id)
	view := nodeView(node)

	for _, e := range node.Edges() {
		edge, ok := h.graph.Edge(e)
		if !ok {
			continue
		}
		other, err := h.graph.Neighbor(e, id)
		if err != nil {
			return nil, err
		}
		view.Links = append(view.Links, queries.LinkView{
			Neighbor: other.Label(),
			SelfLoop: edge.IsSelfLoop(),
			Traits:   traitViews(edge.Traits()),
		})
	}
	return view, nil
}

func (h *GraphQueries) listNodes(_ context.Context, q bus.Query) (interface{}, error) {
	query := q.(queries.ListNodesQuery)
	views := make([]queries.NodeView, 0, h.graph.NodeCount())
	for _, id := range h.graph.Nodes() {
		node, _ := h.graph.Node(id)
		if node.IsExpired() && !query.IncludeExpired {
			continue
		}
		views = append(views, nodeView(node))
	}
	return views, nil
}

func nodeView(n *entities.Node) queries.NodeView {
	return queries.NodeView{
		Label:  n.Label(),
		X:      n.Position().X(),
		Y:      n.Position().Y(),
		State:  n.State().String(),
		Traits: traitViews(n.Traits()),
		Degree: n.Degree(),
	}
}

// traitViews lists traits by kind, then label, as the writer does
func traitViews(f *entities.TraitFrame) []queries.TraitView {
	var out []queries.TraitView
	for _, kind := range valueobjects.TraitKinds {
		for _, label := range f.LabelsOf(kind) {
			v, _ := f.Lookup(label)
			out = append(out, queries.TraitView{Label: label, Kind: kind.String(), Value: v.FormatValue()})
		}
	}
	return out
}
