// Package file provides the TOML configuration for the veriscan CLI.
// Configuration lives at ~/.veriscan/config.toml unless overridden.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// VectorizerConfig selects and configures the semantic provider.
type VectorizerConfig struct {
	// Provider is one of "tfidf", "openai", "ollama".
	Provider string `toml:"provider"`

	OpenAI OpenAIConfig `toml:"openai"`
	Ollama OllamaConfig `toml:"ollama"`
}

// OpenAIConfig holds connection details for the OpenAI provider.
type OpenAIConfig struct {
	BaseURL           string  `toml:"base_url"`
	APIKeyEnv         string  `toml:"api_key_env"`
	Model             string  `toml:"model"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	BatchSize         int     `toml:"batch_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// OllamaConfig holds connection details for the Ollama provider.
type OllamaConfig struct {
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// SegmenterConfig configures document segmentation.
type SegmenterConfig struct {
	ChunkSizeWords int `toml:"chunk_size_words"`
	ShingleSize    int `toml:"shingle_size"`
}

// ThresholdsConfig holds the decision thresholds for both operating
// modes. The two modes are calibrated independently; changing one set
// does not affect the other.
type ThresholdsConfig struct {
	ExactJaccard       float64 `toml:"exact_jaccard"`
	NearExactCosine    float64 `toml:"near_exact_cosine"`
	ChunkCosine        float64 `toml:"chunk_cosine"`
	MinChunkHits       int     `toml:"min_chunk_hits"`
	TFIDFDocCosine     float64 `toml:"tfidf_doc_cosine"`
	SentenceSimilarity float64 `toml:"sentence_similarity"`
	MinSentenceMatches int     `toml:"min_sentence_matches"`
}

// Config is the root configuration structure.
type Config struct {
	// DataDir is where the corpus and ledger live.
	// Empty means ~/.veriscan/data.
	DataDir string `toml:"data_dir"`

	Vectorizer VectorizerConfig `toml:"vectorizer"`
	Segmenter  SegmenterConfig  `toml:"segmenter"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
}

// DefaultPath returns ~/.veriscan/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".veriscan", "config.toml"), nil
}

// Load reads the config from path. A missing file returns the
// defaults, not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Vectorizer: VectorizerConfig{
			Provider: "tfidf",
			OpenAI: OpenAIConfig{
				BaseURL:           "https://api.openai.com/v1",
				APIKeyEnv:         "OPENAI_API_KEY",
				Model:             "text-embedding-3-small",
				TimeoutSecs:       60,
				BatchSize:         64,
				RequestsPerSecond: 3,
			},
			Ollama: OllamaConfig{
				BaseURL:     "http://localhost:11434",
				Model:       "nomic-embed-text",
				TimeoutSecs: 30,
			},
		},
		Segmenter: SegmenterConfig{
			ChunkSizeWords: 150,
			ShingleSize:    3,
		},
		Thresholds: ThresholdsConfig{
			ExactJaccard:       0.20,
			NearExactCosine:    0.95,
			ChunkCosine:        0.85,
			MinChunkHits:       2,
			TFIDFDocCosine:     0.30,
			SentenceSimilarity: 0.80,
			MinSentenceMatches: 3,
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Vectorizer.Provider == "" {
		cfg.Vectorizer.Provider = defaults.Vectorizer.Provider
	}
	if cfg.Vectorizer.OpenAI.BaseURL == "" {
		cfg.Vectorizer.OpenAI.BaseURL = defaults.Vectorizer.OpenAI.BaseURL
	}
	if cfg.Vectorizer.OpenAI.APIKeyEnv == "" {
		cfg.Vectorizer.OpenAI.APIKeyEnv = defaults.Vectorizer.OpenAI.APIKeyEnv
	}
	if cfg.Vectorizer.OpenAI.Model == "" {
		cfg.Vectorizer.OpenAI.Model = defaults.Vectorizer.OpenAI.Model
	}
	if cfg.Vectorizer.OpenAI.TimeoutSecs == 0 {
		cfg.Vectorizer.OpenAI.TimeoutSecs = defaults.Vectorizer.OpenAI.TimeoutSecs
	}
	if cfg.Vectorizer.OpenAI.BatchSize == 0 {
		cfg.Vectorizer.OpenAI.BatchSize = defaults.Vectorizer.OpenAI.BatchSize
	}
	if cfg.Vectorizer.OpenAI.RequestsPerSecond == 0 {
		cfg.Vectorizer.OpenAI.RequestsPerSecond = defaults.Vectorizer.OpenAI.RequestsPerSecond
	}
	if cfg.Vectorizer.Ollama.BaseURL == "" {
		cfg.Vectorizer.Ollama.BaseURL = defaults.Vectorizer.Ollama.BaseURL
	}
	if cfg.Vectorizer.Ollama.Model == "" {
		cfg.Vectorizer.Ollama.Model = defaults.Vectorizer.Ollama.Model
	}
	if cfg.Vectorizer.Ollama.TimeoutSecs == 0 {
		cfg.Vectorizer.Ollama.TimeoutSecs = defaults.Vectorizer.Ollama.TimeoutSecs
	}
	if cfg.Segmenter.ChunkSizeWords == 0 {
		cfg.Segmenter.ChunkSizeWords = defaults.Segmenter.ChunkSizeWords
	}
	if cfg.Segmenter.ShingleSize == 0 {
		cfg.Segmenter.ShingleSize = defaults.Segmenter.ShingleSize
	}
	if cfg.Thresholds.ExactJaccard == 0 {
		cfg.Thresholds.ExactJaccard = defaults.Thresholds.ExactJaccard
	}
	if cfg.Thresholds.NearExactCosine == 0 {
		cfg.Thresholds.NearExactCosine = defaults.Thresholds.NearExactCosine
	}
	if cfg.Thresholds.ChunkCosine == 0 {
		cfg.Thresholds.ChunkCosine = defaults.Thresholds.ChunkCosine
	}
	if cfg.Thresholds.MinChunkHits == 0 {
		cfg.Thresholds.MinChunkHits = defaults.Thresholds.MinChunkHits
	}
	if cfg.Thresholds.TFIDFDocCosine == 0 {
		cfg.Thresholds.TFIDFDocCosine = defaults.Thresholds.TFIDFDocCosine
	}
	if cfg.Thresholds.SentenceSimilarity == 0 {
		cfg.Thresholds.SentenceSimilarity = defaults.Thresholds.SentenceSimilarity
	}
	if cfg.Thresholds.MinSentenceMatches == 0 {
		cfg.Thresholds.MinSentenceMatches = defaults.Thresholds.MinSentenceMatches
	}
}
