package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MinTokens     int `yaml:"min_tokens"`
	TargetTokens  int `yaml:"target_tokens"`
	MaxTokens     int `yaml:"max_tokens"`
	OverlapTokens int `yaml:"overlap_tokens"`
}

// LocalEmbedderConfig configures the offline hash embedder.
type LocalEmbedderConfig struct {
	Dimension int `yaml:"dimension"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
// The same embedder serves both index time and query time.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Local  *LocalEmbedderConfig  `yaml:"local,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// IndexerConfig bounds embedding batches and transient-failure retries.
type IndexerConfig struct {
	BatchSize  int `yaml:"batch_size"`
	MaxRetries int `yaml:"max_retries"`
}

// RetrieverConfig configures query-time retrieval.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// RouterConfig extends the built-in literature-search trigger phrases.
type RouterConfig struct {
	ExtraTriggers []string `yaml:"extra_triggers,omitempty"`
}

// LLMConfig configures the answer-generation model.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxTokens   int    `yaml:"max_tokens"`
}

// SynthesizerConfig bounds the context portion of assembled prompts.
type SynthesizerConfig struct {
	ContextTokenBudget int `yaml:"context_token_budget"`
}

// LiteratureConfig configures the external paper search.
type LiteratureConfig struct {
	BaseURL     string `yaml:"base_url"`
	MaxResults  int    `yaml:"max_results"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Indexer     IndexerConfig     `yaml:"indexer"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	Router      RouterConfig      `yaml:"router"`
	LLM         LLMConfig         `yaml:"llm"`
	Synthesizer SynthesizerConfig `yaml:"synthesizer"`
	Literature  LiteratureConfig  `yaml:"literature"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/paperqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/paperqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "paperqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Chunker:     ChunkerConfig{MinTokens: 80, TargetTokens: 300, MaxTokens: 500, OverlapTokens: 50},
		Embedder:    EmbedderConfig{Type: "local"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Indexer:     IndexerConfig{BatchSize: 32, MaxRetries: 3},
		Retriever:   RetrieverConfig{TopK: 5},
		LLM:         LLMConfig{APIKeyEnv: "OPENAI_API_KEY", Model: "gpt-4o-mini", TimeoutSecs: 120, MaxTokens: 512},
		Synthesizer: SynthesizerConfig{ContextTokenBudget: 3000},
		Literature:  LiteratureConfig{MaxResults: 3, TimeoutSecs: 15},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Chunker.TargetTokens == 0 {
		cfg.Chunker = def.Chunker
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.Indexer.BatchSize == 0 {
		cfg.Indexer.BatchSize = def.Indexer.BatchSize
	}
	if cfg.Indexer.MaxRetries == 0 {
		cfg.Indexer.MaxRetries = def.Indexer.MaxRetries
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = def.Retriever.TopK
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = def.LLM.APIKeyEnv
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if cfg.Synthesizer.ContextTokenBudget == 0 {
		cfg.Synthesizer.ContextTokenBudget = def.Synthesizer.ContextTokenBudget
	}
	if cfg.Literature.MaxResults == 0 {
		cfg.Literature.MaxResults = def.Literature.MaxResults
	}
	if cfg.Literature.TimeoutSecs == 0 {
		cfg.Literature.TimeoutSecs = def.Literature.TimeoutSecs
	}
}
