// Package embedding provides a pluggable interface for text embedding providers.
package embedding

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rcliao/day-intake/internal/config"
)

// Vector is a float32 embedding vector.
type Vector = []float32

// Embedder generates embedding vectors from text.
// EmbedBatch returns one unit-length vector per input, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)
	Dims() int
	Model() string
}

// Normalize scales v to unit length in place. Zero vectors are left alone.
func Normalize(v Vector) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// Dot is the inner product of a and b; for unit vectors it equals cosine similarity.
func Dot(a, b Vector) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// --- Factory ---

// NewFromConfig creates an embedder from configuration, with environment overrides:
// DAY_INTAKE_EMBED_PROVIDER: "openai" | "ollama" | "hash"
// DAY_INTAKE_EMBED_MODEL: model name
// DAY_INTAKE_EMBED_URL: base URL override
func NewFromConfig(cfg config.EmbedderConfig) (Embedder, error) {
	if v := os.Getenv("DAY_INTAKE_EMBED_PROVIDER"); v != "" {
		if v != cfg.Provider {
			cfg.Model = ""
		}
		cfg.Provider = v
	}
	if v := os.Getenv("DAY_INTAKE_EMBED_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DAY_INTAKE_EMBED_URL"); v != "" {
		cfg.BaseURL = v
	}
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.Provider {
	case "openai", "":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		key := os.Getenv(keyEnv)
		if key == "" {
			return nil, fmt.Errorf("%s environment variable not set", keyEnv)
		}
		return NewOpenAIEmbedder(OpenAIConfig{
			APIKey:    key,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dims:      cfg.Dims,
			BatchSize: cfg.BatchSize,
			RPS:       cfg.RPS,
			Timeout:   timeout,
		}), nil
	case "ollama":
		e := NewOllamaEmbedder(cfg.Model, cfg.BaseURL, timeout)
		if cfg.Dims > 0 {
			e.dims = cfg.Dims
		}
		return e, nil
	case "hash":
		return NewHashEmbedder(cfg.Dims), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
