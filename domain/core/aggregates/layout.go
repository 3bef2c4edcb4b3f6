package aggregates

import (
	"math"
	"sort"

	"graphedit/domain/core/valueobjects"
)

// LayoutCircle places the nodes on a circle of radius k/2 centred on the
// origin, k being the node count. Nodes go in creation order starting at
// angle 0 with a step of 2π/k.
func (g *Graph) LayoutCircle() {
	ids := g.Nodes()
	k := len(ids)
	if k == 0 {
		return
	}
	radius := float64(k) / 2
	step := 2 * math.Pi / float64(k)
	for i, id := range ids {
		g.nodes[id].MoveTo(valueobjects.OnCircle(radius, step*float64(i)))
	}
}

// PlaceOnCircle moves the given nodes onto a circle of the given radius, in
// the order given
func (g *Graph) PlaceOnCircle(ids []valueobjects.NodeID, radius float64) {
	if len(ids) == 0 {
		return
	}
	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		if node, ok := g.Node(id); ok {
			node.MoveTo(valueobjects.OnCircle(radius, step*float64(i)))
		}
	}
}

func sortNodeIDs(ids []valueobjects.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
