package graphfile

import (
	"context"
	"path/filepath"
	"testing"

	"graphedit/domain/core/aggregates"
	pkgerrors "graphedit/pkg/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(afero.NewMemMapFs(), "/graphs", NewReader(nil, nil), NewWriter(nil), nil)
}

func TestStore_SaveLoad(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"plain", "demo.graph"},
		{"gzip", "demo.graph.gz"},
		{"nested", "sub/dir/demo.graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemStore(t)
			g := buildGoldenGraph(t)

			require.NoError(t, store.Save(ctx, tt.path, g))

			raw, err := afero.ReadFile(store.Fs(), store.Path(tt.path))
			require.NoError(t, err)
			if IsCompressed(tt.path) {
				assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])
			} else {
				assert.Equal(t, goldenGraph, string(raw))
			}

			loaded, err := store.Load(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, "demo", loaded.Name())
			assert.Equal(t, 3, loaded.NodeCount())
			assert.Equal(t, 2, loaded.EdgeCount())

			data, err := store.Encode("x.graph", loaded)
			require.NoError(t, err)
			assert.Equal(t, goldenGraph, string(data))
		})
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)
	require.NoError(t, store.Save(ctx, "g.graph", buildGoldenGraph(t)))

	small := aggregates.NewGraph("small", nil)
	_, err := small.AddBareNode("only")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "g.graph", small))

	raw, err := afero.ReadFile(store.Fs(), "/graphs/g.graph")
	require.NoError(t, err)
	assert.Equal(t, "Node\nonly\n\n", string(raw))

	entries, err := afero.ReadDir(store.Fs(), "/graphs")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestStore_LoadMissing(t *testing.T) {
	store := newMemStore(t)
	g, err := store.Load(context.Background(), "missing.graph")
	require.NotNil(t, g)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, 0, g.NodeCount())
}

func TestStore_LoadCorruptGzip(t *testing.T) {
	store := newMemStore(t)
	require.NoError(t, afero.WriteFile(store.Fs(), "/graphs/bad.graph.gz", []byte("not gzip"), 0o644))

	g, err := store.Load(context.Background(), "bad.graph.gz")
	require.NotNil(t, g)
	assert.True(t, pkgerrors.IsIO(err))
}

func TestStore_LoadPartial(t *testing.T) {
	store := newMemStore(t)
	require.NoError(t, afero.WriteFile(store.Fs(), "/graphs/dup.graph", []byte("Node\nA\n\nNode\nA\n\n"), 0o644))

	g, err := store.Load(context.Background(), "dup.graph")
	assert.True(t, IsAborted(err))
	assert.Equal(t, 1, g.NodeCount())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)
	require.NoError(t, store.Save(ctx, "g.graph", buildGoldenGraph(t)))

	require.NoError(t, store.Delete(ctx, "g.graph"))
	assert.True(t, pkgerrors.IsNotFound(store.Delete(ctx, "g.graph")))
}

func TestStore_ScanAndList(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)
	fs := store.Fs()
	g := buildGoldenGraph(t)

	for _, name := range []string{"a.graph", "b.graph.gz", "drafts/c.graph", "build/d.graph", "skip.graph", ".hidden/e.graph"} {
		require.NoError(t, store.Save(ctx, name, g))
	}
	require.NoError(t, afero.WriteFile(fs, "/graphs/notes.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/graphs/.gitignore", []byte("build/\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/graphs/.graphignore", []byte("# local\nskip.graph\n"), 0o644))

	paths, err := store.Scan("/graphs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/graphs", "a.graph"),
		filepath.Join("/graphs", "b.graph.gz"),
		filepath.Join("/graphs", "drafts", "c.graph"),
	}, paths)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "a.graph", summaries[0].Name)
	assert.Equal(t, 3, summaries[0].Nodes)
	assert.Equal(t, 2, summaries[0].Edges)
	assert.Equal(t, int64(len(goldenGraph)), summaries[0].Size)
	assert.Equal(t, filepath.Join("drafts", "c.graph"), summaries[2].Name)
}

func TestGraphName(t *testing.T) {
	assert.Equal(t, "demo", GraphName("/x/demo.graph"))
	assert.Equal(t, "demo", GraphName("demo.graph.gz"))
	assert.Equal(t, "notes.txt", GraphName("notes.txt"))
	assert.True(t, IsGraphFile("a.graph.gz"))
	assert.False(t, IsGraphFile("a.gz"))
}
