package aggregates

import (
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
)

// ElementKind discriminates the Element variant
type ElementKind int

const (
	ElementNode ElementKind = iota
	ElementEdge
)

// String returns the kind name
func (k ElementKind) String() string {
	switch k {
	case ElementNode:
		return "node"
	case ElementEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Element is one entry of a graph's ordered element sequence: either a node
// or an edge, told apart by Kind
type Element struct {
	Kind ElementKind
	Node valueobjects.NodeID
	Edge valueobjects.EdgeID
}

// NodeElement wraps a node handle
func NodeElement(id valueobjects.NodeID) Element {
	return Element{Kind: ElementNode, Node: id, Edge: valueobjects.NoEdge}
}

// EdgeElement wraps an edge handle
func EdgeElement(id valueobjects.EdgeID) Element {
	return Element{Kind: ElementEdge, Node: valueobjects.NoNode, Edge: id}
}

// edgeView binds an edge to its graph so it can be drawn between the
// positions of its endpoint nodes
type edgeView struct {
	*entities.Edge
	graph *Graph
}

// Draw renders the edge as a line between its endpoints
func (v edgeView) Draw(canvas entities.Canvas) {
	a, b := v.Endpoints()
	from, okA := v.graph.Node(a)
	to, okB := v.graph.Node(b)
	if !okA || !okB {
		return
	}
	v.DrawBetween(canvas, from.Position(), to.Position())
}
