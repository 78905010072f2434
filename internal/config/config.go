// Package config loads the YAML configuration shared by the build and intake commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/day-intake/internal/model"
)

// DateLayout is the calendar date format used throughout the corpus and CLI.
const DateLayout = "2006-01-02"

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider  string  `yaml:"provider"` // openai | ollama | hash
	Model     string  `yaml:"model"`
	BaseURL   string  `yaml:"base_url,omitempty"`
	APIKeyEnv string  `yaml:"api_key_env,omitempty"`
	Dims      int     `yaml:"dims,omitempty"`
	BatchSize int     `yaml:"batch_size"`
	RPS       float64 `yaml:"requests_per_second"`
	Timeout   int     `yaml:"timeout_secs"`
}

// ChunkerConfig holds the character window parameters.
type ChunkerConfig struct {
	Window  int `yaml:"window"`
	Overlap int `yaml:"overlap"`
}

// RankingConfig holds the re-ranking priors.
type RankingConfig struct {
	RoleWeight   float64                      `yaml:"role_weight"`
	SourceWeight float64                      `yaml:"source_weight"`
	RolePriors   map[model.Role]float64       `yaml:"role_priors"`
	SourcePriors map[model.SourceType]float64 `yaml:"source_priors"`
}

// IntakeConfig holds the assembly limits.
type IntakeConfig struct {
	DefaultK   int                  `yaml:"default_k"`
	MinSearchK int                  `yaml:"min_search_k"`
	Caps       map[model.Bucket]int `yaml:"caps"`
}

// DateRange is the inclusive span of dates the corpus covers.
type DateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Bounds parses the range endpoints.
func (r DateRange) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date_range.start: %w", err)
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date_range.end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("date_range end %s before start %s", r.End, r.Start)
	}
	return start, end, nil
}

// Years returns every calendar year touched by the range.
func (r DateRange) Years() []int {
	start, end, err := r.Bounds()
	if err != nil {
		return nil
	}
	var years []int
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// AppConfig is the root configuration.
type AppConfig struct {
	CorpusDir string         `yaml:"corpus_dir"`
	IndexDir  string         `yaml:"index_dir"`
	IntakeDir string         `yaml:"intake_dir"`
	DateRange DateRange      `yaml:"date_range"`
	Embedder  EmbedderConfig `yaml:"embedder"`
	Chunker   ChunkerConfig  `yaml:"chunker"`
	Ranking   RankingConfig  `yaml:"ranking"`
	Intake    IntakeConfig   `yaml:"intake"`

	// SkipCatalog disables the SQLite chunk catalog written next to the index.
	SkipCatalog bool `yaml:"skip_catalog"`
}

// Load reads a config file. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := baseConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./day-intake.yaml, then ~/.config/day-intake/config.yaml, then the defaults.
// It returns the path that was used, or "" for the built-in defaults.
func LoadDefault() (*AppConfig, string, error) {
	candidates := []string{"day-intake.yaml"}
	if p, err := userConfigPath(); err == nil {
		candidates = append(candidates, p)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// Save writes the config to path, creating directories as needed.
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

func userConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "day-intake", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := baseConfig()
	applyDefaults(cfg)
	return cfg
}

// baseConfig holds the numeric defaults. Files are decoded over it, so an explicit zero is kept.
func baseConfig() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{
			BatchSize: 64,
			RPS:       5,
			Timeout:   60,
		},
		Chunker: ChunkerConfig{Window: 1800, Overlap: 250},
		Ranking: RankingConfig{
			RoleWeight:   0.25,
			SourceWeight: 0.20,
			RolePriors:   DefaultRolePriors(),
			SourcePriors: DefaultSourcePriors(),
		},
		Intake: IntakeConfig{
			DefaultK:   60,
			MinSearchK: 200,
			Caps:       DefaultCaps(),
		},
	}
}

// DefaultRolePriors favour the voices least represented in the record.
func DefaultRolePriors() map[model.Role]float64 {
	return map[model.Role]float64{
		model.RoleEnlisted:      2.0,
		model.RoleNCO:           1.7,
		model.RoleJuniorOfficer: 1.2,
		model.RoleFieldOfficer:  0.6,
		model.RoleGeneral:       0.3,
		model.RoleDelegate:      0.2,
		model.RoleCivilian:      0.8,
		model.RoleUnknown:       0.5,
	}
}

// DefaultSourcePriors favour contemporaneous sources; memoirs are retrospective.
func DefaultSourcePriors() map[model.SourceType]float64 {
	return map[model.SourceType]float64{
		model.SourceDiary:   1.4,
		model.SourceLetter:  1.3,
		model.SourceOrder:   0.8,
		model.SourceReport:  0.8,
		model.SourceJournal: 0.7,
		model.SourceMemoir:  0.4,
		model.SourceUnknown: 0.6,
	}
}

// DefaultCaps are the per-bucket entry limits.
func DefaultCaps() map[model.Bucket]int {
	return map[model.Bucket]int{
		model.BucketSoldier:  25,
		model.BucketCommand:  20,
		model.BucketCongress: 20,
		model.BucketCivilian: 20,
	}
}

// applyDefaults fills the settings whose defaults depend on other fields or that cannot be empty.
func applyDefaults(cfg *AppConfig) {
	if cfg.CorpusDir == "" {
		cfg.CorpusDir = filepath.Join("rag", "corpus")
	}
	if cfg.IndexDir == "" {
		cfg.IndexDir = filepath.Join("rag", "index")
	}
	if cfg.IntakeDir == "" {
		cfg.IntakeDir = "intake"
	}
	if cfg.DateRange.Start == "" {
		cfg.DateRange.Start = "1775-07-04"
	}
	if cfg.DateRange.End == "" {
		cfg.DateRange.End = "1776-07-04"
	}

	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "openai"
	}
	if cfg.Embedder.Model == "" {
		switch cfg.Embedder.Provider {
		case "ollama":
			cfg.Embedder.Model = "all-minilm"
		case "hash":
			cfg.Embedder.Model = "hash-v1"
		default:
			cfg.Embedder.Model = "text-embedding-3-small"
		}
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	cfg.Ranking.RolePriors = mergeDefaults(cfg.Ranking.RolePriors, DefaultRolePriors())
	cfg.Ranking.SourcePriors = mergeDefaults(cfg.Ranking.SourcePriors, DefaultSourcePriors())

	cfg.Intake.Caps = mergeDefaults(cfg.Intake.Caps, DefaultCaps())
}

// mergeDefaults fills keys missing from m with values from defaults.
func mergeDefaults[K comparable, V any](m, defaults map[K]V) map[K]V {
	if m == nil {
		return defaults
	}
	for k, v := range defaults {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return m
}
