package entities

import (
	"graphedit/domain/config"
	"graphedit/domain/core/valueobjects"
)

// Node is a labelled graph vertex with a world-space position and its own traits
type Node struct {
	drawState

	label    string
	position valueobjects.Position
	edges    []valueobjects.EdgeID
	traits   *TraitFrame

	hitRadius  float64
	clickTrait string
}

// NewNode creates a node with an empty trait frame.
// Interaction settings (hit radius, click counter trait) come from cfg.
func NewNode(label string, position valueobjects.Position, cfg *config.DomainConfig) *Node {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Node{
		label:      label,
		position:   position,
		edges:      []valueobjects.EdgeID{},
		traits:     NewTraitFrame(),
		hitRadius:  cfg.HitRadius,
		clickTrait: cfg.ClickTrait,
	}
}

// Label returns the node's label
func (n *Node) Label() string {
	return n.label
}

// Position returns the node's position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// MoveTo moves the node to a new position
func (n *Node) MoveTo(position valueobjects.Position) {
	n.position = position
}

// Traits returns the node's trait frame
func (n *Node) Traits() *TraitFrame {
	return n.traits
}

// Edges returns the incident edges
func (n *Node) Edges() []valueobjects.EdgeID {
	// Return a copy to maintain encapsulation
	edges := make([]valueobjects.EdgeID, len(n.edges))
	copy(edges, n.edges)
	return edges
}

// Degree returns the number of incident edges
func (n *Node) Degree() int {
	return len(n.edges)
}

// HasEdge reports whether the edge is registered on this node
func (n *Node) HasEdge(edge valueobjects.EdgeID) bool {
	for _, e := range n.edges {
		if e == edge {
			return true
		}
	}
	return false
}

// Attach registers an incident edge. Registering twice is a no-op, so a
// self-loop appears once.
func (n *Node) Attach(edge valueobjects.EdgeID) {
	if n.HasEdge(edge) {
		return
	}
	n.edges = append(n.edges, edge)
}

// Cut removes an edge from the incident set, reporting whether it was present.
// Remaining edges may be reordered.
func (n *Node) Cut(edge valueobjects.EdgeID) bool {
	for i, e := range n.edges {
		if e == edge {
			last := len(n.edges) - 1
			n.edges[i] = n.edges[last]
			n.edges = n.edges[:last]
			return true
		}
	}
	return false
}

// Expire marks the node for removal by its graph
func (n *Node) Expire() {
	n.expire()
}

// Contains reports whether a world-space point hits the node.
// The hit area is a fixed circle that ignores the camera zoom.
func (n *Node) Contains(x, y float64) bool {
	return n.position.Within(valueobjects.Pos(x, y), n.hitRadius)
}

// OnClick activates the node when the point hits it and bumps its click counter trait
func (n *Node) OnClick(x, y float64) bool {
	if n.IsExpired() || !n.Contains(x, y) {
		return false
	}
	if n.clickTrait != "" {
		if v, ok := n.traits.Lookup(n.clickTrait); ok {
			if count, isInt := v.Integer(); isInt {
				_ = v.SetInteger(count + 1)
			}
		}
	}
	n.state = StateActive
	return true
}

// octagon is the unit outline drawn for every node
var octagon = [][2]float64{
	{1, 0}, {0.707, 0.707}, {0, 1}, {-0.707, 0.707},
	{-1, 0}, {-0.707, -0.707}, {0, -1}, {0.707, -0.707},
}

// Draw renders an octagon inside the hit circle, crossed when the node is active
func (n *Node) Draw(canvas Canvas) {
	if n.IsExpired() {
		return
	}
	r := n.hitRadius
	points := make([]valueobjects.Position, len(octagon))
	for i, p := range octagon {
		points[i] = n.position.Translate(p[0]*r, p[1]*r)
	}
	canvas.Polygon(points)

	if n.state == StateActive {
		half := r / 2
		canvas.Line(n.position.Translate(-half, 0), n.position.Translate(half, 0))
		canvas.Line(n.position.Translate(0, -half), n.position.Translate(0, half))
	}
}
