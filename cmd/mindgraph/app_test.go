package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/config"
	"mindgraph/internal/knowledge"
)

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))

	got, err := readInput("from flag", []string{path}, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from flag", got)

	got, err = readInput("", []string{path}, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	got, err = readInput("", []string{"-"}, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readInput("", []string{filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.Error(t, err)
}

type memoryCache struct {
	saved map[string][]float32
}

func (m *memoryCache) LoadEmbeddings(ctx context.Context, model string, texts []string) (map[string][]float32, error) {
	out := make(map[string][]float32)
	for _, t := range texts {
		if v, ok := m.saved[model+"|"+t]; ok {
			out[t] = v
		}
	}
	return out, nil
}

func (m *memoryCache) SaveEmbeddings(ctx context.Context, model string, vectors map[string][]float32) error {
	for t, v := range vectors {
		m.saved[model+"|"+t] = v
	}
	return nil
}

func TestEmbedderFactory_LocalProviderPersistsVectors(t *testing.T) {
	cfg := config.Default()
	cache := &memoryCache{saved: make(map[string][]float32)}

	e, err := embedderFactory(cfg, cache)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 384, e.Dimension())

	vecs, err := e.Embed(context.Background(), []string{"graph layout"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Contains(t, cache.saved, "local-hash-384|graph layout")
}

func TestEmbedderFactory_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.AI.Provider = "carrier-pigeon"

	_, err := embedderFactory(cfg, nil)(context.Background())
	assert.Error(t, err)

	svc := knowledge.NewService(embedderFactory(cfg, nil), knowledge.DefaultServiceOptions(), nil)
	assert.Error(t, svc.Initialize(context.Background()))
	assert.False(t, svc.Ready())
}
