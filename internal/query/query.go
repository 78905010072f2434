// Package query produces the intake document for a single date from a built index.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rcliao/day-intake/internal/bucket"
	"github.com/rcliao/day-intake/internal/config"
	"github.com/rcliao/day-intake/internal/embedding"
	"github.com/rcliao/day-intake/internal/index"
	"github.com/rcliao/day-intake/internal/ingest"
	"github.com/rcliao/day-intake/internal/intake"
	"github.com/rcliao/day-intake/internal/logger"
	"github.com/rcliao/day-intake/internal/model"
	"github.com/rcliao/day-intake/internal/rerank"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Prompt is the date-anchored, soldier-biased retrieval query.
func Prompt(date string) string {
	return fmt.Sprintf("For date %s, retrieve primary-source excerpts describing the lived experience of common soldiers "+
		"(camp, hunger, weather, discipline, marching, combat, morale), plus relevant command and Congress machinery.", date)
}

// ParseDate validates a YYYY-MM-DD date inside rng.
func ParseDate(s string, rng config.DateRange) (time.Time, error) {
	if !isoDate.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", model.ErrConfiguration, s)
	}
	t, err := time.Parse(config.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid calendar date %q", model.ErrConfiguration, s)
	}
	start, end, err := rng.Bounds()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	if t.Before(start) || t.After(end) {
		return time.Time{}, fmt.Errorf("%w: date %s outside %s..%s", model.ErrConfiguration, s, rng.Start, rng.End)
	}
	return t, nil
}

// Collection is the loaded, read-only chunk collection.
type Collection struct {
	Index  *index.Flat
	Chunks []model.Chunk
}

// Open loads the index and chunk metadata from indexDir.
func Open(indexDir string) (*Collection, error) {
	indexPath := filepath.Join(indexDir, ingest.IndexFile)
	metaPath := filepath.Join(indexDir, ingest.MetaFile)
	for _, p := range []string{indexPath, metaPath} {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: missing index file %s, run build first", model.ErrConfiguration, p)
		}
	}

	idx, err := index.Load(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrData, err)
	}
	chunks, err := ingest.ReadMeta(metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrData, err)
	}
	if idx.Len() != len(chunks) {
		logger.New("query").Warn("index and metadata sizes differ", "vectors", idx.Len(), "chunks", len(chunks))
	}
	return &Collection{Index: idx, Chunks: chunks}, nil
}

// Service runs the query-time pipeline against one collection.
type Service struct {
	coll       *Collection
	embedder   embedding.Embedder
	reranker   *rerank.Reranker
	assembler  *intake.Assembler
	dateRange  config.DateRange
	minSearchK int
	log        *logger.Logger
}

// NewService wires the pipeline from cfg.
func NewService(coll *Collection, embedder embedding.Embedder, cfg *config.AppConfig) *Service {
	return &Service{
		coll:       coll,
		embedder:   embedder,
		reranker:   rerank.New(rerank.FromConfig(cfg.Ranking)),
		assembler:  intake.New(cfg.Intake.Caps, bucket.New()),
		dateRange:  cfg.DateRange,
		minSearchK: cfg.Intake.MinSearchK,
		log:        logger.New("query"),
	}
}

// Rank returns every retrieved candidate for date in final score order.
func (s *Service) Rank(ctx context.Context, date string, k int) ([]model.RankedCandidate, error) {
	target, err := ParseDate(date, s.dateRange)
	if err != nil {
		return nil, err
	}

	vecs, err := s.embedder.EmbedBatch(ctx, []string{Prompt(date)})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(vecs))
	}
	q := vecs[0]
	embedding.Normalize(q)

	topk := max(k, s.minSearchK)
	hits, err := s.coll.Index.Search(q, topk)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	s.log.Debug("retrieved", "date", date, "requested", topk, "hits", len(hits))

	return s.reranker.Rank(target, hits, s.coll.Chunks), nil
}

// Run builds the intake document for date with at most k entries.
func (s *Service) Run(ctx context.Context, date string, k int) (model.IntakeDocument, error) {
	ranked, err := s.Rank(ctx, date, k)
	if err != nil {
		return model.IntakeDocument{}, err
	}
	return s.assembler.Assemble(date, ranked, k), nil
}

// UsePolicy switches the assembly stop policy.
func (s *Service) UsePolicy(p intake.Policy) {
	s.assembler = s.assembler.WithPolicy(p)
}
