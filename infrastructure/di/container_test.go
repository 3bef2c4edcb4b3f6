package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphedit/application/commands"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/valueobjects"
	"graphedit/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig(config.Test)
	cfg.Logging.Level = "error"
	cfg.Storage.Root = dir
	cfg.Storage.SnapshotDB = filepath.Join(dir, "snapshots.db")
	cfg.Metrics.Enabled = true
	cfg.Metrics.TextfilePath = filepath.Join(dir, "graphedit.prom")
	return cfg
}

func TestInitializeContainer(t *testing.T) {
	cfg := testConfig(t)
	c, cleanup, err := InitializeContainer(cfg)
	require.NoError(t, err)

	g := aggregates.NewGraph("edit", &cfg.Domain)
	b, session, err := c.Editor(g)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, b.Send(ctx, commands.CreateNodeCommand{Label: "A"}))
	require.NoError(t, b.Send(ctx, commands.CreateNodeCommand{Label: "B"}))
	require.NoError(t, b.Send(ctx, commands.LinkNodesCommand{From: "A", To: "B"}))
	require.NoError(t, c.Graphs.Save(ctx, "edit.graph", session.Graph()))

	_, err = os.Stat(filepath.Join(cfg.Storage.Root, "edit.graph"))
	require.NoError(t, err)

	cleanup()
	prom, err := os.ReadFile(cfg.Metrics.TextfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `graphedit_graph_edits_total{type="graph.edge_linked"} 1`)
	assert.Contains(t, string(prom), `graphedit_graphs_saved_total{outcome="success"} 1`)
}

func TestInitializeSnapshotContainer(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	c, cleanup, err := InitializeSnapshotContainer(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	g := aggregates.NewGraph("snap", &cfg.Domain)
	_, err = g.AddNode("A", valueobjects.Origin)
	require.NoError(t, err)
	require.NoError(t, c.Graphs.Snapshot(ctx, "snap", g))

	restored, err := c.Graphs.Restore(ctx, "snap")
	require.NoError(t, err)
	assert.Equal(t, 1, restored.NodeCount())
}
