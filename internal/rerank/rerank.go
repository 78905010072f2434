// Package rerank re-scores raw similarity hits by date proximity and narrator priors.
package rerank

import (
	"sort"
	"time"

	"github.com/rcliao/day-intake/internal/config"
	"github.com/rcliao/day-intake/internal/index"
	"github.com/rcliao/day-intake/internal/logger"
	"github.com/rcliao/day-intake/internal/model"
)

// Config holds the prior tables and their weights. Both tables must carry an unknown entry.
type Config struct {
	RoleWeight   float64
	SourceWeight float64
	RolePriors   map[model.Role]float64
	SourcePriors map[model.SourceType]float64
}

// FromConfig adapts the ranking section of the application config.
func FromConfig(c config.RankingConfig) Config {
	return Config{
		RoleWeight:   c.RoleWeight,
		SourceWeight: c.SourceWeight,
		RolePriors:   c.RolePriors,
		SourcePriors: c.SourcePriors,
	}
}

// DefaultConfig returns the built-in priors.
func DefaultConfig() Config {
	return FromConfig(config.Default().Ranking)
}

// Reranker computes final scores for retrieved chunks.
type Reranker struct {
	cfg Config
	log *logger.Logger
}

// New creates a reranker with the given priors.
func New(cfg Config) *Reranker {
	return &Reranker{cfg: cfg, log: logger.New("rerank")}
}

// TemporalWeight maps an absolute day distance to a score multiplier.
// Unknown distances get the same weight as anything beyond two weeks.
func TemporalWeight(days int, known bool) float64 {
	switch {
	case !known:
		return 0.85
	case days == 0:
		return 1.35
	case days <= 1:
		return 1.22
	case days <= 3:
		return 1.12
	case days <= 7:
		return 1.00
	case days <= 14:
		return 0.92
	default:
		return 0.85
	}
}

// DayDistance returns the absolute number of calendar days between date and target.
// It reports false when date is empty or not a YYYY-MM-DD date.
func DayDistance(date string, target time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}
	d, err := time.Parse(config.DateLayout, date)
	if err != nil {
		return 0, false
	}
	t := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(t).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, true
}

// RolePrior looks up the prior for a role, falling back to the unknown entry.
func (r *Reranker) RolePrior(role model.Role) float64 {
	if p, ok := r.cfg.RolePriors[role]; ok {
		return p
	}
	return r.cfg.RolePriors[model.RoleUnknown]
}

// SourcePrior looks up the prior for a source type, falling back to the unknown entry.
func (r *Reranker) SourcePrior(st model.SourceType) float64 {
	if p, ok := r.cfg.SourcePriors[st]; ok {
		return p
	}
	return r.cfg.SourcePriors[model.SourceUnknown]
}

// Score computes the final score of one chunk for the target date.
func (r *Reranker) Score(similarity float64, c model.Chunk, target time.Time) float64 {
	tw := TemporalWeight(DayDistance(c.Date, target))
	rw := 1 + r.cfg.RoleWeight*r.RolePrior(c.Role)
	sw := 1 + r.cfg.SourceWeight*r.SourcePrior(c.SourceType)
	return similarity * tw * rw * sw
}

// Rank scores every hit that points into chunks and returns them by descending final score.
// Hits with out-of-range IDs are dropped. Equal scores keep their hit order.
func (r *Reranker) Rank(target time.Time, hits []index.Hit, chunks []model.Chunk) []model.RankedCandidate {
	ranked := make([]model.RankedCandidate, 0, len(hits))
	dropped := 0
	for _, h := range hits {
		if h.ID < 0 || h.ID >= len(chunks) {
			dropped++
			continue
		}
		c := chunks[h.ID]
		ranked = append(ranked, model.RankedCandidate{
			Chunk:      c,
			FinalScore: r.Score(float64(h.Score), c, target),
		})
	}
	if dropped > 0 {
		r.log.Debug("dropped hits outside the chunk collection", "count", dropped, "chunks", len(chunks))
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].FinalScore > ranked[j].FinalScore })
	return ranked
}
