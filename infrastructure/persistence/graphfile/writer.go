package graphfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/entities"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"

	"go.uber.org/zap"
)

// Writer serializes graphs to the text format
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a writer. A nil logger discards skip notices.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Write serializes a graph with default settings
func Write(dst io.Writer, g *aggregates.Graph) error {
	return NewWriter(nil).Write(dst, g)
}

// Marshal renders a graph into a byte slice
func (w *Writer) Marshal(g *aggregates.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write emits every node in element order, then every edge. Expired
// elements and edges that lost an endpoint are left out. Nothing is written
// when a label or text value cannot be represented on a single line.
func (w *Writer) Write(dst io.Writer, g *aggregates.Graph) error {
	nodes, edges := w.collect(g)
	if err := checkRepresentable(g, nodes, edges); err != nil {
		return err
	}

	out := bufio.NewWriter(dst)
	for _, id := range nodes {
		node, _ := g.Node(id)
		writeLines(out, KeywordNode, node.Label())
		writeTraits(out, node.Traits())
		writeLines(out, "")
	}
	for _, id := range edges {
		edge, _ := g.Edge(id)
		a, b := edge.Endpoints()
		from, _ := g.Node(a)
		to, _ := g.Node(b)
		writeLines(out, KeywordEdge, from.Label(), to.Label())
		writeTraits(out, edge.Traits())
		writeLines(out, "")
	}
	if err := out.Flush(); err != nil {
		return pkgerrors.NewIOError("write graph", err)
	}

	w.logger.Debug("graph written",
		zap.String("graph", g.Name()),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)))
	return nil
}

// collect picks the elements that will be written
func (w *Writer) collect(g *aggregates.Graph) ([]valueobjects.NodeID, []valueobjects.EdgeID) {
	var nodes []valueobjects.NodeID
	var edges []valueobjects.EdgeID
	for _, el := range g.Elements() {
		switch el.Kind {
		case aggregates.ElementNode:
			node, ok := g.Node(el.Node)
			if !ok || node.IsExpired() {
				w.logger.Debug("skipping expired node", zap.Stringer("node", el.Node))
				continue
			}
			nodes = append(nodes, el.Node)
		case aggregates.ElementEdge:
			edge, ok := g.Edge(el.Edge)
			if !ok || edge.IsExpired() || edge.IsDangling() || !endpointsLive(g, edge) {
				w.logger.Debug("skipping expired or dangling edge", zap.Stringer("edge", el.Edge))
				continue
			}
			edges = append(edges, el.Edge)
		default:
			w.logger.Warn("skipping element of unknown kind", zap.Stringer("kind", el.Kind))
		}
	}
	return nodes, edges
}

func endpointsLive(g *aggregates.Graph, edge *entities.Edge) bool {
	a, b := edge.Endpoints()
	for _, id := range []valueobjects.NodeID{a, b} {
		node, ok := g.Node(id)
		if !ok || node.IsExpired() {
			return false
		}
	}
	return true
}

// checkRepresentable rejects labels and text values that would break the line format
func checkRepresentable(g *aggregates.Graph, nodes []valueobjects.NodeID, edges []valueobjects.EdgeID) error {
	for _, id := range nodes {
		node, _ := g.Node(id)
		if !valueobjects.IsLineSafe(node.Label()) {
			return pkgerrors.NewFormatError(fmt.Sprintf("node label %q cannot be written", node.Label()))
		}
		if err := checkTraits(node.Traits(), "node "+node.Label()); err != nil {
			return err
		}
	}
	for _, id := range edges {
		edge, _ := g.Edge(id)
		if err := checkTraits(edge.Traits(), "edge "+id.String()); err != nil {
			return err
		}
	}
	return nil
}

func checkTraits(frame *entities.TraitFrame, owner string) error {
	for _, label := range frame.Labels() {
		if !valueobjects.IsLineSafe(label) {
			return pkgerrors.NewFormatError(fmt.Sprintf("%s: trait label %q cannot be written", owner, label))
		}
		v, _ := frame.Lookup(label)
		if s, isText := v.Text(); isText && !valueobjects.IsLineSafe(s) {
			return pkgerrors.NewFormatError(
				fmt.Sprintf("%s: text trait %q must be a single non-empty line", owner, label))
		}
	}
	return nil
}

// writeTraits emits integers, then reals, then texts, each group sorted by label
func writeTraits(out *bufio.Writer, frame *entities.TraitFrame) {
	for _, kind := range valueobjects.TraitKinds {
		for _, label := range frame.LabelsOf(kind) {
			v, _ := frame.Lookup(label)
			writeLines(out, kind.String(), label, v.FormatValue())
		}
	}
}

// writeLines ignores errors; bufio.Writer keeps the first one for Flush
func writeLines(out *bufio.Writer, lines ...string) {
	for _, line := range lines {
		out.WriteString(line)
		out.WriteByte('\n')
	}
}
