package entities

import (
	"fmt"

	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"
)

// Edge connects two nodes. Either endpoint slot may be empty (NoNode) once
// the edge has been cut.
type Edge struct {
	drawState

	endpoints [2]valueobjects.NodeID
	traits    *TraitFrame
}

// NewEdge creates an edge between two nodes. Self-loops are allowed.
func NewEdge(a, b valueobjects.NodeID) *Edge {
	return &Edge{
		endpoints: [2]valueobjects.NodeID{a, b},
		traits:    NewTraitFrame(),
	}
}

// Endpoints returns both endpoint slots
func (e *Edge) Endpoints() (valueobjects.NodeID, valueobjects.NodeID) {
	return e.endpoints[0], e.endpoints[1]
}

// Traits returns the edge's trait frame
func (e *Edge) Traits() *TraitFrame {
	return e.traits
}

// IsSelfLoop reports whether both endpoints are the same node
func (e *Edge) IsSelfLoop() bool {
	return e.endpoints[0].IsValid() && e.endpoints[0] == e.endpoints[1]
}

// IsDangling reports whether at least one endpoint slot is empty
func (e *Edge) IsDangling() bool {
	return !e.endpoints[0].IsValid() || !e.endpoints[1].IsValid()
}

// Touches reports whether the node is one of the endpoints
func (e *Edge) Touches(n valueobjects.NodeID) bool {
	return n.IsValid() && (e.endpoints[0] == n || e.endpoints[1] == n)
}

// From returns the endpoint opposite to source
func (e *Edge) From(source valueobjects.NodeID) (valueobjects.NodeID, error) {
	switch {
	case source.IsValid() && source == e.endpoints[0]:
		return e.endpoints[1], nil
	case source.IsValid() && source == e.endpoints[1]:
		return e.endpoints[0], nil
	}
	return valueobjects.NoNode, pkgerrors.NewDanglingReferenceError(
		fmt.Sprintf("tried to traverse an edge from node %s, which the edge does not touch", source))
}

// Sever marks the edge expired and empties both endpoint slots, returning the
// previous endpoints so the caller can scrub their back-references.
func (e *Edge) Sever() (valueobjects.NodeID, valueobjects.NodeID) {
	a, b := e.endpoints[0], e.endpoints[1]
	e.expire()
	e.endpoints = [2]valueobjects.NodeID{valueobjects.NoNode, valueobjects.NoNode}
	return a, b
}

// OnClick never activates an edge
func (e *Edge) OnClick(x, y float64) bool {
	return false
}

// DrawBetween renders the edge as a straight line between its endpoint positions
func (e *Edge) DrawBetween(canvas Canvas, from, to valueobjects.Position) {
	if e.IsExpired() || e.IsDangling() {
		return
	}
	canvas.Line(from, to)
}
