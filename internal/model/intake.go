package model

import "time"

// Bucket is one of the four thematic intake categories.
type Bucket string

const (
	BucketSoldier  Bucket = "soldiers_day"
	BucketCommand  Bucket = "men_of_command"
	BucketCongress Bucket = "continental_congress_committees"
	BucketCivilian Bucket = "voices_beyond_the_line"
)

// Buckets lists every bucket in output order.
var Buckets = []Bucket{BucketSoldier, BucketCommand, BucketCongress, BucketCivilian}

// IntakeEntry is the curator-facing view of a chunk.
// Context is left for a human to fill and is never populated automatically.
type IntakeEntry struct {
	Quote      string     `json:"quote"`
	Citation   string     `json:"citation"`
	SourceURL  string     `json:"source_url"`
	Context    string     `json:"context"`
	Facsimiles []string   `json:"facsimiles"`
	ActorRole  Role       `json:"actor_role"`
	SourceType SourceType `json:"source_type"`
	Author     string     `json:"author"`
	SourcePath string     `json:"source_path"`
	DateHint   string     `json:"date_hint"`
}

// IntakeDocument is the bucketed artifact handed to curators.
type IntakeDocument struct {
	Date        string        `json:"date"`
	SoldiersDay []IntakeEntry `json:"soldiers_day"`
	Command     []IntakeEntry `json:"men_of_command"`
	Congress    []IntakeEntry `json:"continental_congress_committees"`
	Civilian    []IntakeEntry `json:"voices_beyond_the_line"`
}

// NewIntakeDocument returns a document with empty, non-nil bucket lists.
func NewIntakeDocument(date string) IntakeDocument {
	return IntakeDocument{
		Date:        date,
		SoldiersDay: []IntakeEntry{},
		Command:     []IntakeEntry{},
		Congress:    []IntakeEntry{},
		Civilian:    []IntakeEntry{},
	}
}

// Entries returns a pointer to the list backing bucket b.
func (d *IntakeDocument) Entries(b Bucket) *[]IntakeEntry {
	switch b {
	case BucketCommand:
		return &d.Command
	case BucketCongress:
		return &d.Congress
	case BucketCivilian:
		return &d.Civilian
	default:
		return &d.SoldiersDay
	}
}

// Total returns the number of entries across all buckets.
func (d *IntakeDocument) Total() int {
	return len(d.SoldiersDay) + len(d.Command) + len(d.Congress) + len(d.Civilian)
}

// IndexSummary records how an index was built. Diagnostics only.
type IndexSummary struct {
	BuildID      string    `json:"build_id"`
	Model        string    `json:"model"`
	Dimensions   int       `json:"dimensions"`
	Chunks       int       `json:"chunks"`
	CorpusFiles  int       `json:"corpus_files"`
	ChunkChars   int       `json:"chunk_chars"`
	ChunkOverlap int       `json:"chunk_overlap"`
	BuiltAt      time.Time `json:"built_at"`
}
