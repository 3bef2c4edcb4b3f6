package graphfile

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"graphedit/domain/config"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readString(t *testing.T, text string) (*aggregates.Graph, error) {
	t.Helper()
	g, err := Read(strings.NewReader(text))
	require.NotNil(t, g)
	return g, err
}

func nodeLabels(g *aggregates.Graph) []string {
	var labels []string
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		labels = append(labels, n.Label())
	}
	return labels
}

func TestRead_WellFormed(t *testing.T) {
	text := "Node\nA\nInt\nx\n1\nDouble\ny\n2.5\nString\nz\nhello world\n\n" +
		"Node\nB\n\n" +
		"Edge\nA\nB\nInt\nw\n3\n\n"

	g, err := readString(t, text)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, nodeLabels(g))
	require.Equal(t, 1, g.EdgeCount())

	a, _ := g.NodeByLabel("A")
	node, _ := g.Node(a)
	assert.Equal(t, 3, node.Traits().Len(), "no default traits on loaded nodes")

	x, _ := node.Traits().Lookup("x")
	i, ok := x.Integer()
	assert.True(t, ok)
	assert.Equal(t, int64(1), i)

	z, _ := node.Traits().Lookup("z")
	s, _ := z.Text()
	assert.Equal(t, "hello world", s)

	edge, _ := g.Edge(g.Edges()[0])
	w, _ := edge.Traits().Lookup("w")
	wi, _ := w.Integer()
	assert.Equal(t, int64(3), wi)
	assert.NoError(t, g.Validate())
}

func TestRead_LineEndingsAndNoise(t *testing.T) {
	text := "# a comment line\r\nNode\r\nA\r\nInt\r\nn\r\n7\r\n\r\nsomething else\r\nNode\r\nB\r\n"

	g, err := readString(t, text)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, nodeLabels(g))

	a, _ := g.NodeByLabel("A")
	node, _ := g.Node(a)
	n, _ := node.Traits().Lookup("n")
	v, _ := n.Integer()
	assert.Equal(t, int64(7), v)
}

func TestRead_KeywordLabels(t *testing.T) {
	// operand lines are taken verbatim, even when they look like keywords
	text := "Node\nNode\nString\nEdge\nInt\n\nNode\nInt\n\nEdge\nNode\nInt\n\n"

	g, err := readString(t, text)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node", "Int"}, nodeLabels(g))
	assert.Equal(t, 1, g.EdgeCount())

	id, _ := g.NodeByLabel("Node")
	node, _ := g.Node(id)
	v, ok := node.Traits().Lookup("Edge")
	require.True(t, ok)
	s, _ := v.Text()
	assert.Equal(t, "Int", s)
}

func TestRead_Aborts(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantNodes  []string
		wantEdges  int
		wantInText string
	}{
		{
			name:       "duplicate node label",
			text:       "Node\nA\n\nNode\nA\n\nNode\nC\n\n",
			wantNodes:  []string{"A"},
			wantInText: "duplicate node label",
		},
		{
			name:       "unresolved edge endpoint",
			text:       "Node\nA\n\nEdge\nA\nZ\n\nNode\nB\n\n",
			wantNodes:  []string{"A"},
			wantInText: "not a known node",
		},
		{
			name:       "node before previous object finished",
			text:       "Node\nA\nNode\nB\n\n",
			wantNodes:  []string{"A"},
			wantInText: "before the previous object",
		},
		{
			name:       "edge before previous object finished",
			text:       "Node\nA\n\nNode\nB\nEdge\nA\nB\n\n",
			wantNodes:  []string{"A", "B"},
			wantInText: "before the previous object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := readString(t, tt.text)
			require.Error(t, err)
			assert.True(t, IsAborted(err))
			assert.True(t, pkgerrors.IsFormat(err))
			assert.Contains(t, err.Error(), tt.wantInText)

			assert.Equal(t, tt.wantNodes, nodeLabels(g))
			assert.Equal(t, tt.wantEdges, g.EdgeCount())
		})
	}
}

func TestRead_NonFatalDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		traits int
	}{
		{"trait without object", "Int\nx\n1\n\nNode\nA\nInt\ny\n2\n\n", 1},
		{"bad integer", "Node\nA\nInt\nx\nseven\nInt\ny\n2\n\n", 1},
		{"integer with trailing garbage", "Node\nA\nInt\nx\n12abc\n\n", 0},
		{"bad real", "Node\nA\nDouble\nx\n1.2.3\n\n", 0},
		{"duplicate trait across kinds", "Node\nA\nInt\nx\n1\nDouble\nx\n2.0\n\n", 1},
		{"record cut by blank line", "Node\nA\nInt\nx\n\nNode\nB\n\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := readString(t, tt.text)
			require.Error(t, err)
			assert.False(t, IsAborted(err))
			assert.NotEmpty(t, Diagnostics(err))

			a, ok := g.NodeByLabel("A")
			require.True(t, ok)
			node, _ := g.Node(a)
			assert.Equal(t, tt.traits, node.Traits().Len())
		})
	}
}

func TestRead_DuplicateTraitKeepsFirst(t *testing.T) {
	g, err := readString(t, "Node\nA\nInt\nx\n1\nDouble\nx\n2.0\n\n")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateTrait(err))

	a, _ := g.NodeByLabel("A")
	node, _ := g.Node(a)
	x, _ := node.Traits().Lookup("x")
	assert.Equal(t, valueobjects.TraitInteger, x.Kind())
}

func TestRead_DiagnosticsCarryLines(t *testing.T) {
	_, err := NewReader(nil, nil).Read(strings.NewReader("Node\nA\nInt\nx\nbad\n\n"), "g.graph")
	diags := Diagnostics(err)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, "g.graph", diags[0].Source)
	assert.Contains(t, diags[0].Error(), "g.graph:3:")
}

func TestRead_LayoutAfterLoad(t *testing.T) {
	g, err := readString(t, "Node\nA\n\nNode\nB\n\nNode\nC\n\nNode\nD\n\n")
	require.NoError(t, err)

	for i, id := range g.Nodes() {
		n, _ := g.Node(id)
		theta := 2 * math.Pi * float64(i) / 4
		assert.InDelta(t, 2*math.Cos(theta), n.Position().X(), 1e-9)
		assert.InDelta(t, 2*math.Sin(theta), n.Position().Y(), 1e-9)
	}
}

func TestRead_AutoLabelsAfterReload(t *testing.T) {
	g := aggregates.NewGraph("reload", nil)
	for i := 0; i < 3; i++ {
		_, err := g.AddNode("", valueobjects.Origin)
		require.NoError(t, err)
	}
	first, _ := g.NodeByLabel("Node 0")
	require.NoError(t, g.RemoveNode(first))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	loaded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.CreatedCount())

	id, err := loaded.AddNode("", valueobjects.Origin)
	require.NoError(t, err)
	n, _ := loaded.Node(id)
	assert.Equal(t, "Node 3", n.Label())
	idx, _ := n.Traits().Lookup("node_id")
	v, _ := idx.Integer()
	assert.Equal(t, int64(3), v)
}

func TestRead_ResumesPastLoadedIndex(t *testing.T) {
	g, err := readString(t, "Node\nA\nInt\nnode_id\n9\n\nNode\nNode 4\n\n")
	require.NoError(t, err)
	assert.Equal(t, 10, g.CreatedCount())
}

func TestRead_LayoutAfterAbort(t *testing.T) {
	g, err := readString(t, "Node\nA\n\nNode\nB\n\nNode\nA\n\n")
	require.True(t, IsAborted(err))

	a, _ := g.NodeByLabel("A")
	node, _ := g.Node(a)
	assert.InDelta(t, 1.0, node.Position().X(), 1e-9)
}

func TestRead_SelfLoopsDisabled(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.AllowSelfLoops = false

	g, err := NewReader(nil, cfg).Read(strings.NewReader("Node\nA\n\nEdge\nA\nA\n\n"), "")
	assert.True(t, IsAborted(err))
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, 0, g.EdgeCount())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestRead_IOError(t *testing.T) {
	g, err := Read(failingReader{})
	require.NotNil(t, g)
	assert.True(t, pkgerrors.IsIO(err))
	assert.True(t, IsAborted(err))
}

func TestRead_Empty(t *testing.T) {
	g, err := readString(t, "")
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
}

func TestCount(t *testing.T) {
	_, err := readString(t, "Int\nx\n1\n\nNode\nA\nInt\ny\nbad\n\nNode\nA\n\n")
	warnings, fatal := Count(err)
	assert.Equal(t, 2, warnings)
	assert.Equal(t, 1, fatal)

	warnings, fatal = Count(nil)
	assert.Zero(t, warnings)
	assert.Zero(t, fatal)
}
