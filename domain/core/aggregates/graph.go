package aggregates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"graphedit/domain/config"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	"graphedit/domain/events"
	pkgerrors "graphedit/pkg/errors"
)

// Graph is the aggregate root of an editable graph.
// Nodes and edges live in arenas owned by the graph and are addressed by
// NodeID/EdgeID handles; a reclaimed slot stays nil and is never reused.
type Graph struct {
	id   valueobjects.GraphID
	name string
	cfg  *config.DomainConfig

	nodes  []*entities.Node
	edges  []*entities.Edge
	order  []Element
	labels map[string]valueobjects.NodeID

	// created is the next counter value for auto labels and the index trait
	created int

	version int
	events  []events.DomainEvent
}

// NewGraph creates an empty graph. A nil cfg uses the default domain configuration.
func NewGraph(name string, cfg *config.DomainConfig) *Graph {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Graph{
		id:      valueobjects.NewGraphID(),
		name:    name,
		cfg:     cfg,
		labels:  make(map[string]valueobjects.NodeID),
		version: 1,
		events:  []events.DomainEvent{},
	}
}

// ID returns the graph's unique identifier
func (g *Graph) ID() valueobjects.GraphID {
	return g.id
}

// Name returns the graph's name
func (g *Graph) Name() string {
	return g.name
}

// SetName renames the graph
func (g *Graph) SetName(name string) {
	g.name = name
}

// Config returns the domain configuration the graph was built with
func (g *Graph) Config() *config.DomainConfig {
	return g.cfg
}

// Version increases with every mutation
func (g *Graph) Version() int {
	return g.version
}

// CreatedCount returns how many nodes have ever been added
func (g *Graph) CreatedCount() int {
	return g.created
}

// ResumeCounter moves the creation counter past every auto label and index
// trait already in the graph. Loaders call it so nodes created afterwards
// do not repeat a loaded label or index.
func (g *Graph) ResumeCounter() {
	prefix := g.cfg.LabelPrefix + " "
	for _, node := range g.nodes {
		if node == nil {
			continue
		}
		if rest, ok := strings.CutPrefix(node.Label(), prefix); ok {
			if n, err := strconv.Atoi(rest); err == nil && n >= g.created {
				g.created = n + 1
			}
		}
		if g.cfg.IndexTrait == "" {
			continue
		}
		if v, ok := node.Traits().Lookup(g.cfg.IndexTrait); ok {
			if n, ok := v.Integer(); ok && n >= int64(g.created) {
				g.created = int(n) + 1
			}
		}
	}
}

// autoLabel returns the first free "<prefix> <n>" with n at or past the counter
func (g *Graph) autoLabel() (string, int) {
	n := g.created
	for {
		label := fmt.Sprintf("%s %d", g.cfg.LabelPrefix, n)
		if _, taken := g.labels[label]; !taken {
			return label, n
		}
		n++
	}
}

// AddNode creates a node with the configured default traits.
// An empty label is replaced by "<prefix> <n>", n being the first counter
// value at or past the creation counter whose label is free.
func (g *Graph) AddNode(label string, pos valueobjects.Position) (valueobjects.NodeID, error) {
	n := g.created
	if label == "" {
		label, n = g.autoLabel()
		g.created = n
	}
	id, node, err := g.insertNode(label, pos)
	if err != nil {
		return valueobjects.NoNode, err
	}
	if err := g.applyDefaultTraits(node, n); err != nil {
		// the configuration is validated up front, so this only trips on a
		// hand-built DomainConfig
		return id, pkgerrors.Wrap(err, "failed to apply default traits")
	}
	return id, nil
}

// AddBareNode creates a node without default traits
func (g *Graph) AddBareNode(label string) (valueobjects.NodeID, error) {
	id, _, err := g.insertNode(label, valueobjects.Origin)
	return id, err
}

func (g *Graph) insertNode(label string, pos valueobjects.Position) (valueobjects.NodeID, *entities.Node, error) {
	if label == "" {
		label, g.created = g.autoLabel()
	}
	if err := valueobjects.ValidateLabel(label, g.cfg.MaxLabelSize); err != nil {
		return valueobjects.NoNode, nil, err
	}
	if _, exists := g.labels[label]; exists {
		return valueobjects.NoNode, nil, pkgerrors.NewConflictError(
			fmt.Sprintf("node label %q already exists", label)).WithDetail("label", label)
	}

	node := entities.NewNode(label, pos, g.cfg)
	id := valueobjects.NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node)
	g.order = append(g.order, NodeElement(id))
	g.labels[label] = id
	g.created++

	g.touch()
	g.addEvent(events.NewNodeCreated(g.id, g.version, id, label, time.Now()))
	return id, node, nil
}

func (g *Graph) applyDefaultTraits(node *entities.Node, n int) error {
	traits := node.Traits()
	if g.cfg.IndexTrait != "" {
		if err := traits.AddInteger(g.cfg.IndexTrait, int64(n)); err != nil {
			return err
		}
	}
	for _, dt := range g.cfg.NodeTraits {
		kind, ok := valueobjects.ParseTraitKind(dt.Kind)
		if !ok {
			return pkgerrors.NewValidationError(fmt.Sprintf("unknown trait kind %q", dt.Kind))
		}
		value, err := valueobjects.ParseTraitValue(kind, dt.Value)
		if err != nil {
			return err
		}
		if err := traits.Add(dt.Label, value); err != nil {
			return err
		}
	}
	return nil
}

// Link connects two live nodes with a new edge. A self-loop is registered
// once on its node.
func (g *Graph) Link(a, b valueobjects.NodeID) (valueobjects.EdgeID, error) {
	na, err := g.liveNode(a)
	if err != nil {
		return valueobjects.NoEdge, err
	}
	nb, err := g.liveNode(b)
	if err != nil {
		return valueobjects.NoEdge, err
	}
	if a == b && !g.cfg.AllowSelfLoops {
		return valueobjects.NoEdge, pkgerrors.NewValidationError(
			fmt.Sprintf("self-loops are disabled (node %q)", na.Label()))
	}
	if !g.cfg.AllowMultiEdges && len(g.EdgesBetween(a, b)) > 0 {
		return valueobjects.NoEdge, pkgerrors.NewConflictError(
			fmt.Sprintf("nodes %q and %q are already linked", na.Label(), nb.Label()))
	}

	id := valueobjects.EdgeID(len(g.edges))
	g.edges = append(g.edges, entities.NewEdge(a, b))
	g.order = append(g.order, EdgeElement(id))
	na.Attach(id)
	nb.Attach(id)

	g.touch()
	g.addEvent(events.NewEdgeLinked(g.id, g.version, id, a, b, time.Now()))
	return id, nil
}

// DetachEdge removes an edge handle from one node's incident set without
// touching the edge itself
func (g *Graph) DetachEdge(n valueobjects.NodeID, e valueobjects.EdgeID) bool {
	node, ok := g.Node(n)
	if !ok {
		return false
	}
	return node.Cut(e)
}

// CutEdge expires an edge and severs it from both endpoints. Afterwards both
// endpoint slots are empty and neither node lists the edge. source must be
// one of the endpoints, or NoNode when the edge is deleted on its own.
func (g *Graph) CutEdge(e valueobjects.EdgeID, source valueobjects.NodeID) error {
	edge, ok := g.Edge(e)
	if !ok {
		return pkgerrors.NewNotFoundError("edge " + e.String())
	}
	if source != valueobjects.NoNode && !edge.Touches(source) {
		return pkgerrors.NewDanglingReferenceError(
			fmt.Sprintf("cannot cut edge %s from node %s, which it does not touch", e, source)).
			WithDetail("edge", e.String()).
			WithDetail("source", source.String())
	}

	a, b := edge.Sever()
	g.DetachEdge(a, e)
	if b != a {
		g.DetachEdge(b, e)
	}

	g.touch()
	g.addEvent(events.NewEdgeCut(g.id, g.version, e, a, b, time.Now()))
	return nil
}

// Expire marks a node for removal and cuts every incident edge from it
func (g *Graph) Expire(n valueobjects.NodeID) error {
	node, err := g.liveNode(n)
	if err != nil {
		return err
	}
	node.Expire()

	// CutEdge shrinks the node's edge set, so iterate over a snapshot
	incident := node.Edges()
	for _, e := range incident {
		if err := g.CutEdge(e, n); err != nil {
			return err
		}
	}

	g.touch()
	g.addEvent(events.NewNodeExpired(g.id, g.version, n, node.Label(), len(incident), time.Now()))
	return nil
}

// Purge reclaims every expired node and edge and returns how many were removed
func (g *Graph) Purge() int {
	var nodes, edges int
	kept := g.order[:0]
	for _, el := range g.order {
		switch el.Kind {
		case ElementNode:
			node := g.nodes[el.Node]
			if node != nil && node.IsExpired() {
				delete(g.labels, node.Label())
				g.nodes[el.Node] = nil
				nodes++
				continue
			}
		case ElementEdge:
			edge := g.edges[el.Edge]
			if edge != nil && edge.IsExpired() {
				g.edges[el.Edge] = nil
				edges++
				continue
			}
		}
		kept = append(kept, el)
	}
	g.order = kept

	if nodes+edges > 0 {
		g.touch()
		g.addEvent(events.NewElementsPurged(g.id, g.version, nodes, edges, time.Now()))
	}
	return nodes + edges
}

// RemoveNode expires a node with its edges and reclaims them
func (g *Graph) RemoveNode(n valueobjects.NodeID) error {
	if err := g.Expire(n); err != nil {
		return err
	}
	g.Purge()
	return nil
}

// RemoveEdge cuts an edge and reclaims it
func (g *Graph) RemoveEdge(e valueobjects.EdgeID) error {
	if err := g.CutEdge(e, valueobjects.NoNode); err != nil {
		return err
	}
	g.Purge()
	return nil
}

// Node returns the node behind a handle, including expired nodes not yet purged
func (g *Graph) Node(id valueobjects.NodeID) (*entities.Node, bool) {
	if !id.IsValid() || int(id) >= len(g.nodes) || g.nodes[id] == nil {
		return nil, false
	}
	return g.nodes[id], true
}

// Edge returns the edge behind a handle, including expired edges not yet purged
func (g *Graph) Edge(id valueobjects.EdgeID) (*entities.Edge, bool) {
	if !id.IsValid() || int(id) >= len(g.edges) || g.edges[id] == nil {
		return nil, false
	}
	return g.edges[id], true
}

// NodeByLabel resolves a label to its node handle
func (g *Graph) NodeByLabel(label string) (valueobjects.NodeID, bool) {
	id, ok := g.labels[label]
	return id, ok
}

// Elements returns the ordered element sequence
func (g *Graph) Elements() []Element {
	out := make([]Element, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns node handles in creation order
func (g *Graph) Nodes() []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, len(g.labels))
	for i, node := range g.nodes {
		if node != nil {
			ids = append(ids, valueobjects.NodeID(i))
		}
	}
	return ids
}

// Edges returns edge handles in creation order
func (g *Graph) Edges() []valueobjects.EdgeID {
	var ids []valueobjects.EdgeID
	for i, edge := range g.edges {
		if edge != nil {
			ids = append(ids, valueobjects.EdgeID(i))
		}
	}
	return ids
}

// EdgesBetween returns the live edges joining a and b in either direction
func (g *Graph) EdgesBetween(a, b valueobjects.NodeID) []valueobjects.EdgeID {
	node, ok := g.Node(a)
	if !ok {
		return nil
	}
	var ids []valueobjects.EdgeID
	for _, e := range node.Edges() {
		edge, ok := g.Edge(e)
		if !ok || edge.IsExpired() {
			continue
		}
		if other, err := edge.From(a); err == nil && other == b {
			ids = append(ids, e)
		}
	}
	return ids
}

// NodeCount returns the number of nodes held, expired ones included until purged
func (g *Graph) NodeCount() int {
	return len(g.labels)
}

// EdgeCount returns the number of edges held, expired ones included until purged
func (g *Graph) EdgeCount() int {
	count := 0
	for _, edge := range g.edges {
		if edge != nil {
			count++
		}
	}
	return count
}

// Neighbor returns the node across edge e from node n
func (g *Graph) Neighbor(e valueobjects.EdgeID, n valueobjects.NodeID) (*entities.Node, error) {
	edge, ok := g.Edge(e)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("edge " + e.String())
	}
	other, err := edge.From(n)
	if err != nil {
		return nil, err
	}
	node, ok := g.Node(other)
	if !ok {
		return nil, pkgerrors.NewDanglingReferenceError(
			fmt.Sprintf("edge %s points at missing node %s", e, other))
	}
	return node, nil
}

// Drawables returns the host-facing view of every element, in element order
func (g *Graph) Drawables() []entities.Drawable {
	out := make([]entities.Drawable, 0, len(g.order))
	for _, el := range g.order {
		if d, ok := g.drawable(el); ok {
			out = append(out, d)
		}
	}
	return out
}

// Click offers a world-space click to each element in order and returns the
// first one that reacts
func (g *Graph) Click(x, y float64) (Element, bool) {
	for _, el := range g.order {
		d, ok := g.drawable(el)
		if ok && d.OnClick(x, y) {
			return el, true
		}
	}
	return Element{}, false
}

// ResetStates clears every Active marker
func (g *Graph) ResetStates() {
	for _, d := range g.Drawables() {
		d.ResetState()
	}
}

func (g *Graph) drawable(el Element) (entities.Drawable, bool) {
	switch el.Kind {
	case ElementNode:
		node, ok := g.Node(el.Node)
		if !ok {
			return nil, false
		}
		return node, true
	case ElementEdge:
		edge, ok := g.Edge(el.Edge)
		if !ok {
			return nil, false
		}
		return edgeView{Edge: edge, graph: g}, true
	}
	return nil, false
}

// Validate checks that node and edge back-references agree
func (g *Graph) Validate() error {
	for i, edge := range g.edges {
		if edge == nil || edge.IsExpired() {
			continue
		}
		id := valueobjects.EdgeID(i)
		a, b := edge.Endpoints()
		for _, end := range []valueobjects.NodeID{a, b} {
			node, ok := g.Node(end)
			if !ok {
				return pkgerrors.NewDanglingReferenceError(
					fmt.Sprintf("edge %s references missing node %s", id, end))
			}
			if !node.HasEdge(id) {
				return pkgerrors.NewInternalError(
					fmt.Sprintf("node %q does not list incident edge %s", node.Label(), id))
			}
		}
	}
	for i, node := range g.nodes {
		if node == nil {
			continue
		}
		for _, e := range node.Edges() {
			edge, ok := g.Edge(e)
			if !ok || !edge.Touches(valueobjects.NodeID(i)) {
				return pkgerrors.NewDanglingReferenceError(
					fmt.Sprintf("node %q lists edge %s which does not touch it", node.Label(), e))
			}
		}
	}
	if len(g.labels) != len(g.Nodes()) {
		return pkgerrors.NewInternalError("label index out of sync with node arena")
	}
	return nil
}

// Components groups live nodes into connected components, each in creation order
func (g *Graph) Components() [][]valueobjects.NodeID {
	visited := make(map[valueobjects.NodeID]bool)
	var components [][]valueobjects.NodeID

	for _, id := range g.Nodes() {
		if visited[id] || g.nodes[id].IsExpired() {
			continue
		}
		component := []valueobjects.NodeID{}
		queue := []valueobjects.NodeID{id}
		visited[id] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for _, e := range g.nodes[current].Edges() {
				edge, ok := g.Edge(e)
				if !ok {
					continue
				}
				next, err := edge.From(current)
				if err != nil || !next.IsValid() {
					continue
				}
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sortNodeIDs(component)
		components = append(components, component)
	}
	return components
}

// GetUncommittedEvents returns all uncommitted domain events
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(g.events))
	copy(out, g.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (g *Graph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

// Private helper methods

func (g *Graph) liveNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, ok := g.Node(id)
	if !ok || node.IsExpired() {
		return nil, pkgerrors.NewNotFoundError("node " + id.String())
	}
	return node, nil
}

func (g *Graph) touch() {
	g.version++
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}
