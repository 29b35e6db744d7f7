package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Chunker.TargetTokens)
	assert.Equal(t, "local", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, 5, cfg.Retriever.TopK)
	assert.Equal(t, 3000, cfg.Synthesizer.ContextTokenBudget)
	assert.Equal(t, 3, cfg.Literature.MaxResults)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
retriever:
  top_k: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
	assert.Equal(t, 8, cfg.Retriever.TopK)
	// Untouched sections fall back to defaults.
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, 500, cfg.Chunker.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := defaultConfig()
	want.Router.ExtraTriggers = []string{"look up literature"}
	want.VectorStore = VectorStoreConfig{
		Type:   "qdrant",
		Qdrant: &QdrantConfig{URL: "http://localhost:6333", Collection: "papers"},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
