package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/day-intake/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1800, cfg.Chunker.Window)
	assert.Equal(t, 250, cfg.Chunker.Overlap)
	assert.Equal(t, 60, cfg.Intake.DefaultK)
	assert.Equal(t, 200, cfg.Intake.MinSearchK)
	assert.Equal(t, 25, cfg.Intake.Caps[model.BucketSoldier])
	assert.Equal(t, 2.0, cfg.Ranking.RolePriors[model.RoleEnlisted])
	assert.Equal(t, 0.6, cfg.Ranking.SourcePriors[model.SourceUnknown])
	assert.False(t, cfg.SkipCatalog)
}

func TestLoad_PartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day-intake.yaml")
	data := `
corpus_dir: corpus
chunker:
  window: 500
  overlap: 50
ranking:
  role_priors:
    civilian: 1.5
intake:
  caps:
    voices_beyond_the_line: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "corpus", cfg.CorpusDir)
	assert.Equal(t, 500, cfg.Chunker.Window)
	assert.Equal(t, 1.5, cfg.Ranking.RolePriors[model.RoleCivilian])
	assert.Equal(t, 0.5, cfg.Ranking.RolePriors[model.RoleUnknown], "missing priors fall back to defaults")
	assert.Equal(t, 3, cfg.Intake.Caps[model.BucketCivilian])
	assert.Equal(t, 20, cfg.Intake.Caps[model.BucketCommand])
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Embedder.Provider = "hash"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Embedder.Provider)
	assert.Equal(t, cfg.Intake.Caps, got.Intake.Caps)
}

func TestDateRange(t *testing.T) {
	r := DateRange{Start: "1775-07-04", End: "1776-07-04"}
	start, end, err := r.Bounds()
	require.NoError(t, err)
	assert.True(t, start.Before(end))
	assert.Equal(t, []int{1775, 1776}, r.Years())

	_, _, err = DateRange{Start: "1776-07-04", End: "1775-07-04"}.Bounds()
	assert.Error(t, err)
	_, _, err = DateRange{Start: "July 4", End: "1776-07-04"}.Bounds()
	assert.Error(t, err)
}

func TestLoad_ExplicitZerosKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day-intake.yaml")
	data := `
chunker:
  overlap: 0
ranking:
  role_weight: 0
  source_weight: 0
embedder:
  requests_per_second: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Chunker.Overlap)
	assert.Equal(t, 1800, cfg.Chunker.Window, "omitted keys keep their defaults")
	assert.Zero(t, cfg.Ranking.RoleWeight)
	assert.Zero(t, cfg.Ranking.SourceWeight)
	assert.Zero(t, cfg.Embedder.RPS)
	assert.Equal(t, 64, cfg.Embedder.BatchSize)
}

func TestLoad_ProviderPicksModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day-intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder:\n  provider: ollama\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", cfg.Embedder.Model)
}
