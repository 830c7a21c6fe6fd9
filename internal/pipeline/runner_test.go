package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/apperr"
	"mindgraph/internal/storage"
)

func openStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "maps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunner_GenerateStores(t *testing.T) {
	store := openStore(t)
	r := NewRunner(localProcessor(), store, nil)
	ctx := context.Background()

	rec, err := r.Generate(ctx, Request{Text: "Graph databases model connected data well."})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Main Topic", rec.Title)

	loaded, err := store.GetMindmap(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Mindmap.Metadata.ClustersFound, loaded.Mindmap.Metadata.ClustersFound)
	assert.Len(t, loaded.Mindmap.Nodes, len(rec.Mindmap.Nodes))
}

func TestRunner_GenerateFailureStoresNothing(t *testing.T) {
	store := openStore(t)
	r := NewRunner(localProcessor(), store, nil)

	_, err := r.Generate(context.Background(), Request{Text: "tiny"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	list, err := store.ListMindmaps(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunner_Batch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "climate_notes.txt"),
		[]byte("Climate change increases pollution. Renewable energy supports sustainability goals."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "empty.md"), []byte("ok"), 0o644))

	store := openStore(t)
	r := NewRunner(localProcessor(), store, nil)

	var results []BatchResult
	require.NoError(t, r.Batch(context.Background(), root, func(res BatchResult) {
		results = append(results, res)
	}))

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "climate notes", results[0].Record.Title)
	assert.True(t, apperr.Is(results[1].Err, apperr.KindInvalidInput))

	list, err := store.ListMindmaps(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
