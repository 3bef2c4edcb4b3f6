package sqlite

import (
	"context"
	"testing"
	"time"

	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/valueobjects"
	"graphedit/infrastructure/persistence/graphfile"
	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *GraphRepository {
	t.Helper()
	repo, err := Open(context.Background(), ":memory:", graphfile.NewReader(nil, nil), graphfile.NewWriter(nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleGraph(t *testing.T, labels ...string) *aggregates.Graph {
	t.Helper()
	g := aggregates.NewGraph("sample", nil)
	var prev valueobjects.NodeID = valueobjects.NoNode
	for _, label := range labels {
		id, err := g.AddNode(label, valueobjects.Origin)
		require.NoError(t, err)
		if prev.IsValid() {
			_, err = g.Link(prev, id)
			require.NoError(t, err)
		}
		prev = id
	}
	return g
}

func TestGraphRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, "demo", sampleGraph(t, "A", "B", "C")))

	g, err := repo.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	id, ok := g.NodeByLabel("B")
	require.True(t, ok)
	n, _ := g.Node(id)
	assert.Equal(t, 4, n.Traits().Len())
}

func TestGraphRepository_NewestSnapshotWins(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, "demo", sampleGraph(t, "A")))
	require.NoError(t, repo.Save(ctx, "demo", sampleGraph(t, "A", "B")))
	require.NoError(t, repo.Save(ctx, "other", sampleGraph(t, "X")))

	g, err := repo.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())

	history, err := repo.History(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Nodes)
	assert.Equal(t, 1, history[1].Nodes)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.False(t, history[0].CreatedAt.Before(history[1].CreatedAt))
	assert.WithinDuration(t, time.Now(), history[0].CreatedAt, time.Minute)

	old, err := repo.LoadSnapshot(ctx, history[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, old.NodeCount())

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "demo", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].Nodes)
	assert.Equal(t, 1, summaries[0].Edges)
	assert.Positive(t, summaries[0].Size)
	assert.Equal(t, "other", summaries[1].Name)
}

func TestGraphRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Load(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = repo.LoadSnapshot(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, "missing")))
}

func TestGraphRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Save(ctx, "demo", sampleGraph(t, "A")))
	require.NoError(t, repo.Save(ctx, "demo", sampleGraph(t, "B")))

	require.NoError(t, repo.Delete(ctx, "demo"))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestGraphRepository_RejectsUnwritableGraph(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	g := aggregates.NewGraph("bad", nil)
	id, err := g.AddBareNode("A")
	require.NoError(t, err)
	n, _ := g.Node(id)
	require.NoError(t, n.Traits().AddText("note", "two\nlines"))

	assert.True(t, pkgerrors.IsFormat(repo.Save(ctx, "bad", g)))
	assert.True(t, pkgerrors.IsValidation(repo.Save(ctx, "", sampleGraph(t, "A"))))
}

func TestGraphRepository_SchemaVersion(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	evolution := migrations()
	version, err := evolution.CurrentVersion(ctx, repo.db)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
	assert.Equal(t, schemaVersion, evolution.Latest())

	history, err := evolution.History(ctx, repo.db)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "create snapshot table", history[0].Description)

	// migrating again is a no-op
	require.NoError(t, evolution.Migrate(ctx, repo.db, schemaVersion))
}
