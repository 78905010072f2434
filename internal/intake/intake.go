// Package intake assembles ranked candidates into the bucketed intake document.
package intake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/day-intake/internal/bucket"
	"github.com/rcliao/day-intake/internal/logger"
	"github.com/rcliao/day-intake/internal/model"
)

// MaxQuoteRunes bounds the length of an entry quote, ellipsis included.
const MaxQuoteRunes = 520

const ellipsis = "…"

// Policy decides when assembly stops.
type Policy int

const (
	// StopAtTotal stops as soon as the document holds k entries, even if
	// later buckets are still empty. High-scoring buckets can crowd out the rest.
	StopAtTotal Policy = iota
	// FillToCaps fills every bucket up to its cap first, then keeps k entries by
	// taking the best remaining entry of each bucket in turn.
	FillToCaps
)

// Assembler turns a ranked candidate list into an IntakeDocument.
type Assembler struct {
	caps       map[model.Bucket]int
	classifier *bucket.Classifier
	policy     Policy
	log        *logger.Logger
}

// New creates an assembler. A bucket missing from caps accepts no entries.
func New(caps map[model.Bucket]int, classifier *bucket.Classifier) *Assembler {
	if classifier == nil {
		classifier = bucket.New()
	}
	return &Assembler{caps: caps, classifier: classifier, policy: StopAtTotal, log: logger.New("intake")}
}

// WithPolicy returns a copy of a using policy p.
func (a *Assembler) WithPolicy(p Policy) *Assembler {
	c := *a
	c.policy = p
	return &c
}

// Assemble walks ranked in order and fills the buckets for date. The result never holds more than k entries.
func (a *Assembler) Assemble(date string, ranked []model.RankedCandidate, k int) model.IntakeDocument {
	doc := model.NewIntakeDocument(date)
	if k <= 0 {
		return doc
	}

	limit := k
	if a.policy == FillToCaps {
		limit = math.MaxInt
	}
	a.collect(&doc, ranked, limit)
	if doc.Total() > k {
		doc = roundRobin(doc, k)
	}
	return doc
}

func (a *Assembler) collect(doc *model.IntakeDocument, ranked []model.RankedCandidate, limit int) {
	seen := make(map[model.Key]bool, len(ranked))
	duplicates, full := 0, 0
	for _, c := range ranked {
		if seen[c.Key()] {
			duplicates++
			continue
		}
		b := a.classifier.Classify(c.Chunk)
		entries := doc.Entries(b)
		if len(*entries) >= a.caps[b] {
			full++
			continue
		}
		*entries = append(*entries, NewEntry(c.Chunk))
		seen[c.Key()] = true

		if doc.Total() >= limit {
			break
		}
	}
	a.log.Debug("assembled intake", "date", doc.Date, "entries", doc.Total(), "duplicates", duplicates, "cap_skipped", full)
}

// roundRobin keeps k entries of pool, taking each bucket's next best entry in turn.
// pool must hold more than k entries.
func roundRobin(pool model.IntakeDocument, k int) model.IntakeDocument {
	out := model.NewIntakeDocument(pool.Date)
	for round := 0; out.Total() < k; round++ {
		for _, b := range model.Buckets {
			src := *pool.Entries(b)
			if round < len(src) && out.Total() < k {
				dst := out.Entries(b)
				*dst = append(*dst, src[round])
			}
		}
	}
	return out
}

// NewEntry converts a chunk to its curator-facing entry.
func NewEntry(c model.Chunk) model.IntakeEntry {
	citation := c.Citation
	if citation == "" {
		citation = c.Title
	}
	role := c.Role
	if role == "" {
		role = model.RoleUnknown
	}
	st := c.SourceType
	if st == "" {
		st = model.SourceUnknown
	}
	return model.IntakeEntry{
		Quote:      Truncate(c.Text, MaxQuoteRunes),
		Citation:   citation,
		SourceURL:  c.URL,
		Context:    "",
		Facsimiles: []string{},
		ActorRole:  role,
		SourceType: st,
		Author:     c.Author,
		SourcePath: c.SourcePath,
		DateHint:   c.Date,
	}
}

// Truncate trims s and shortens it to at most limit runes. A shortened quote
// is cut at the last whitespace and ends with an ellipsis.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	budget := limit - utf8.RuneCountInString(ellipsis)
	if budget <= 0 {
		return ellipsis
	}
	runes := []rune(s)
	cut := string(runes[:budget+1])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	} else {
		cut = string(runes[:budget])
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace) + ellipsis
}

// Counts returns the number of entries in each bucket.
func Counts(doc model.IntakeDocument) map[model.Bucket]int {
	counts := make(map[model.Bucket]int, len(model.Buckets))
	for _, b := range model.Buckets {
		counts[b] = len(*doc.Entries(b))
	}
	return counts
}

// WriteFile writes doc as indented JSON. The file is replaced atomically.
func WriteFile(path string, doc model.IntakeDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal intake: %w", err)
	}
	data = append(data, '\n')
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".intake-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
