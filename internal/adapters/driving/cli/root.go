// Package cli implements the veriscan command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/config/file"
	"github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/storage/fs"
	"github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/vectorizer/ollama"
	"github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/vectorizer/openai"
	"github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/vectorizer/tfidf"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
	"github.com/veriscan-labs/veriscan-cli/internal/core/services"
	"github.com/veriscan-labs/veriscan-cli/internal/extractors"
	"github.com/veriscan-labs/veriscan-cli/internal/extractors/docx"
	"github.com/veriscan-labs/veriscan-cli/internal/extractors/pdf"
	"github.com/veriscan-labs/veriscan-cli/internal/extractors/plaintext"
	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
	flagDataDir string
)

// Wired services, built lazily by ensureServices.
var (
	corpusStore       *fs.CorpusStore
	submissionService *services.SubmissionService
)

var rootCmd = &cobra.Command{
	Use:   "veriscan",
	Short: "Originality checking for assignment submissions",
	Long: `veriscan checks a submitted document against the growing corpus of
previously accepted submissions for an assignment, rejects exact,
near-exact, and patchwork copies, and admits original work into the
corpus for future comparisons.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
		// API keys may live in a local .env during development.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default ~/.veriscan/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Corpus data directory (default ~/.veriscan/data)")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if corpusStore != nil {
			corpusStore.Close()
		}
	}()
	return rootCmd.Execute()
}

// ensureServices builds the service graph once, on first use by a
// command that needs it.
func ensureServices() error {
	if submissionService != nil {
		return nil
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		var err error
		cfgPath, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := configfile.Load(cfgPath)
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store, err := fs.NewCorpusStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	corpusStore = store

	vectorizer, mode, err := buildVectorizer(cfg)
	if err != nil {
		return err
	}
	logger.Info("vectorizer=%s mode=%s", vectorizer.Name(), mode)

	policy := services.NewPolicy(services.PolicyConfig{
		Mode:               mode,
		ExactJaccard:       cfg.Thresholds.ExactJaccard,
		NearExactCosine:    cfg.Thresholds.NearExactCosine,
		MinChunkHits:       cfg.Thresholds.MinChunkHits,
		DocCosine:          cfg.Thresholds.TFIDFDocCosine,
		MinSentenceMatches: cfg.Thresholds.MinSentenceMatches,
	})
	engine := services.NewEngine(vectorizer, services.EngineConfig{
		ChunkThreshold:    cfg.Thresholds.ChunkCosine,
		SentenceGate:      policy.SentenceGate(),
		SentenceThreshold: cfg.Thresholds.SentenceSimilarity,
		ChunkSignal:       policy.ChunkSignal(),
	})

	registry := extractors.NewRegistry(plaintext.New(), pdf.New(), docx.New())
	submissionService = services.NewSubmissionService(store, registry, engine, policy, services.SubmissionConfig{
		ChunkSize:   cfg.Segmenter.ChunkSizeWords,
		ShingleSize: cfg.Segmenter.ShingleSize,
	})
	return nil
}

// buildVectorizer constructs the configured semantic provider and the
// policy mode calibrated for it.
func buildVectorizer(cfg *configfile.Config) (driven.Vectorizer, services.Mode, error) {
	switch cfg.Vectorizer.Provider {
	case "", "tfidf":
		return tfidf.New(), services.ModeTFIDF, nil

	case "openai":
		apiKey := lookupEnv(cfg.Vectorizer.OpenAI.APIKeyEnv)
		v, err := openai.New(openai.Config{
			APIKey:            apiKey,
			BaseURL:           cfg.Vectorizer.OpenAI.BaseURL,
			Model:             cfg.Vectorizer.OpenAI.Model,
			Timeout:           secs(cfg.Vectorizer.OpenAI.TimeoutSecs),
			BatchSize:         cfg.Vectorizer.OpenAI.BatchSize,
			RequestsPerSecond: cfg.Vectorizer.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, "", err
		}
		return v, services.ModeEmbedding, nil

	case "ollama":
		v := ollama.New(ollama.Config{
			BaseURL: cfg.Vectorizer.Ollama.BaseURL,
			Model:   cfg.Vectorizer.Ollama.Model,
			Timeout: secs(cfg.Vectorizer.Ollama.TimeoutSecs),
		})
		return v, services.ModeEmbedding, nil

	default:
		return nil, "", errors.New("unknown vectorizer provider: " + cfg.Vectorizer.Provider)
	}
}
