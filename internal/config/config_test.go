package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Pipeline, cfg.Pipeline)
	assert.Equal(t, "local", cfg.AI.Provider)
	assert.Equal(t, 100, cfg.Server.RateLimit.Requests)
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
ai:
  provider: ollama
  model: nomic-embed-text
pipeline:
  base_similarity: 0.7
  max_related: 2
storage:
  path: /tmp/maps.db
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.AI.Model)
	assert.Equal(t, 0.7, cfg.Pipeline.BaseSimilarity)
	assert.Equal(t, 2, cfg.Pipeline.MaxRelated)
	// untouched keys keep their defaults
	assert.Equal(t, 0.3, cfg.Pipeline.MinConceptImportance)
	assert.Equal(t, 384, cfg.AI.Dimension)
	assert.Equal(t, "/tmp/maps.db", cfg.Storage.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MINDGRAPH_API_KEY", "secret")
	t.Setenv("MINDGRAPH_AI_PROVIDER", "openai")
	t.Setenv("MINDGRAPH_PORT", "8088")
	t.Setenv("MINDGRAPH_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai: [unterminated"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
