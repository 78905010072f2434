// Package ingest builds the searchable chunk collection from a corpus directory.
package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/day-intake/internal/chunker"
	"github.com/rcliao/day-intake/internal/config"
	"github.com/rcliao/day-intake/internal/document"
	"github.com/rcliao/day-intake/internal/embedding"
	"github.com/rcliao/day-intake/internal/index"
	"github.com/rcliao/day-intake/internal/logger"
	"github.com/rcliao/day-intake/internal/model"
	"github.com/rcliao/day-intake/internal/store"
)

// idPrefixRunes is how much chunk text goes into the chunk id.
const idPrefixRunes = 200

// Options configures an ingestion run.
type Options struct {
	CorpusDir   string
	IndexDir    string
	Chunking    chunker.Options
	Years       []int
	SkipCatalog bool
}

// OptionsFromConfig maps the application config onto ingestion options.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		CorpusDir:   cfg.CorpusDir,
		IndexDir:    cfg.IndexDir,
		Chunking:    chunker.Options{Window: cfg.Chunker.Window, Overlap: cfg.Chunker.Overlap},
		Years:       cfg.DateRange.Years(),
		SkipCatalog: cfg.SkipCatalog,
	}
}

// Orchestrator runs the parse, chunk, embed and persist pipeline.
type Orchestrator struct {
	opts     Options
	parser   *document.Parser
	embedder embedding.Embedder
	log      *logger.Logger
}

// New creates an orchestrator. Invalid chunking options are a configuration error.
func New(opts Options, embedder embedding.Embedder) (*Orchestrator, error) {
	if err := opts.Chunking.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: no embedder", model.ErrConfiguration)
	}
	return &Orchestrator{
		opts:     opts,
		parser:   document.New(opts.Years),
		embedder: embedder,
		log:      logger.New("ingest"),
	}, nil
}

// Run ingests the whole corpus and writes the index artifacts. Nothing is replaced unless every artifact was written.
func (o *Orchestrator) Run(ctx context.Context) (*model.IndexSummary, error) {
	info, err := os.Stat(o.opts.CorpusDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: missing corpus dir: %s", model.ErrConfiguration, o.opts.CorpusDir)
	}

	files, err := Discover(o.opts.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .txt/.md files found under %s", model.ErrData, o.opts.CorpusDir)
	}
	o.log.Info("scanned corpus", "dir", o.opts.CorpusDir, "files", len(files))

	chunks, err := o.collect(files)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunked text produced, check corpus formatting", model.ErrData)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	o.log.Info("embedding chunks", "chunks", len(texts), "model", o.embedder.Model())
	start := time.Now()
	vecs, err := o.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(chunks))
	}
	o.log.Debug("embedded chunks", "elapsed", time.Since(start))

	dim := len(vecs[0])
	idx := index.NewFlat(dim)
	for _, v := range vecs {
		embedding.Normalize(v)
	}
	if err := idx.Add(vecs...); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	summary := &model.IndexSummary{
		BuildID:      ulid.Make().String(),
		Model:        o.embedder.Model(),
		Dimensions:   dim,
		Chunks:       len(chunks),
		CorpusFiles:  len(files),
		ChunkChars:   o.opts.Chunking.Window,
		ChunkOverlap: o.opts.Chunking.Overlap,
		BuiltAt:      time.Now().UTC().Truncate(time.Second),
	}

	if err := o.persist(ctx, idx, chunks, summary); err != nil {
		return nil, err
	}
	o.log.Info("built index", "dir", o.opts.IndexDir, "chunks", summary.Chunks, "files", summary.CorpusFiles, "build_id", summary.BuildID)
	return summary, nil
}

func (o *Orchestrator) collect(files []string) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for _, path := range files {
		meta, body, err := o.parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		n := 0
		for w := range chunker.Windows(body, o.opts.Chunking) {
			chunks = append(chunks, model.Chunk{
				ID:               ChunkID(meta.SourcePath, n, w.Text),
				ChunkIndex:       n,
				Text:             w.Text,
				DocumentMetadata: meta,
			})
			n++
		}
		if n == 0 {
			o.log.Debug("document produced no chunks", "path", path)
		}
	}
	return chunks, nil
}

// persist stages the file artifacts, writes the catalog, then moves the staged files into place.
// A failure before the final step leaves the previous build untouched.
func (o *Orchestrator) persist(ctx context.Context, idx *index.Flat, chunks []model.Chunk, summary *model.IndexSummary) error {
	dir := o.opts.IndexDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	stage, err := os.MkdirTemp(dir, ".build-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	if err := idx.Save(filepath.Join(stage, IndexFile)); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := WriteMeta(filepath.Join(stage, MetaFile), chunks); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := WriteInfo(filepath.Join(stage, InfoFile), summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if !o.opts.SkipCatalog {
		if err := writeCatalog(ctx, filepath.Join(dir, CatalogFile), summary, chunks); err != nil {
			return err
		}
	}
	return publish(stage, dir, IndexFile, MetaFile, InfoFile)
}

func writeCatalog(ctx context.Context, path string, summary *model.IndexSummary, chunks []model.Chunk) error {
	cat, err := store.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()
	if err := cat.ReplaceChunks(ctx, summary, chunks); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// publish renames the staged files into dir in order. An error names the files already replaced.
func publish(stage, dir string, names ...string) error {
	for i, name := range names {
		if err := os.Rename(filepath.Join(stage, name), filepath.Join(dir, name)); err != nil {
			if i == 0 {
				return fmt.Errorf("publish %s: %w", name, err)
			}
			return fmt.Errorf("publish %s (already replaced: %s): %w", name, strings.Join(names[:i], ", "), err)
		}
	}
	return nil
}

// Discover lists the .txt and .md files under root in lexicographic order.
// Hidden files and hidden directories are skipped.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".txt", ".md":
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ChunkID is the hex SHA-1 of the source path, chunk index and leading text.
func ChunkID(sourcePath string, idx int, text string) string {
	prefix := text
	if r := []rune(text); len(r) > idPrefixRunes {
		prefix = string(r[:idPrefixRunes])
	}
	sum := sha1.Sum([]byte(sourcePath + "::" + strconv.Itoa(idx) + "::" + prefix))
	return hex.EncodeToString(sum[:])
}
