// Package cli defines the command-line interface and assembles the
// pipeline from configuration.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paperqa/internal/chunker"
	"paperqa/internal/config"
	"paperqa/internal/domain"
	locemb "paperqa/internal/embedding/local"
	oaiemb "paperqa/internal/embedding/openai"
	"paperqa/internal/indexer"
	"paperqa/internal/literature"
	oaillm "paperqa/internal/llm/openai"
	"paperqa/internal/logging"
	"paperqa/internal/retriever"
	"paperqa/internal/router"
	"paperqa/internal/service"
	"paperqa/internal/synthesizer"
	"paperqa/internal/vectorstore/memory"
	"paperqa/internal/vectorstore/qdrant"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "paperqa",
	Short: "Question answering over an indexed PDF document corpus",
	Long: `paperqa indexes extracted document records and answers questions
about them, citing the source file and page for every answer. Utterances
that ask for new papers are routed to an arXiv search instead.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.AppConfig, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newLogger() *zap.Logger {
	return logging.New(!flagVerbose)
}

// buildService assembles the pipeline. The generator is only constructed
// when withLLM is set; ingest-only commands must not require an API key.
func buildService(cfg *config.AppConfig, log *zap.Logger, withLLM bool) (*service.Service, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	ch := chunker.New(
		chunker.WithWindow(cfg.Chunker.MinTokens, cfg.Chunker.TargetTokens, cfg.Chunker.MaxTokens),
		chunker.WithOverlap(cfg.Chunker.OverlapTokens),
	)
	ix := indexer.New(embedder, store, log,
		indexer.WithBatchSize(cfg.Indexer.BatchSize),
		indexer.WithMaxRetries(cfg.Indexer.MaxRetries),
	)
	ret := retriever.New(embedder, store)
	rt := router.New(cfg.Router.ExtraTriggers...)

	var gen domain.Generator
	if withLLM {
		gen, err = oaillm.New(oaillm.Config{
			BaseURL:   cfg.LLM.BaseURL,
			APIKeyEnv: cfg.LLM.APIKeyEnv,
			Model:     cfg.LLM.Model,
			Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
			MaxTokens: cfg.LLM.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
	}
	synth := synthesizer.New(gen, cfg.Synthesizer.ContextTokenBudget, log)

	lit := literature.New(literature.Config{
		BaseURL:    cfg.Literature.BaseURL,
		MaxResults: cfg.Literature.MaxResults,
		Timeout:    time.Duration(cfg.Literature.TimeoutSecs) * time.Second,
	})

	return service.New(ch, ix, ret, rt, synth, lit, log), nil
}

func buildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "", "local":
		dim := 0
		if cfg.Embedder.Local != nil {
			dim = cfg.Embedder.Local.Dimension
		}
		return locemb.New(dim), nil
	case "openai":
		ec := cfg.Embedder.OpenAI
		if ec == nil {
			ec = &config.OpenAIEmbedderConfig{}
		}
		return oaiemb.New(oaiemb.Config{
			BaseURL:   ec.BaseURL,
			APIKeyEnv: ec.APIKeyEnv,
			Model:     ec.Model,
			Timeout:   time.Duration(ec.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
	}
}

func buildStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "", "memory":
		return memory.New(), nil
	case "qdrant":
		qc := cfg.VectorStore.Qdrant
		if qc == nil {
			return nil, fmt.Errorf("vector store type is qdrant but qdrant section is missing")
		}
		return qdrant.New(qdrant.Config{
			URL:        qc.URL,
			APIKey:     qc.APIKey,
			Collection: qc.Collection,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.VectorStore.Type)
	}
}
