package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/day-intake/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id            TEXT PRIMARY KEY,
		model         TEXT NOT NULL,
		dimensions    INTEGER NOT NULL,
		chunk_count   INTEGER NOT NULL,
		corpus_files  INTEGER NOT NULL,
		chunk_chars   INTEGER NOT NULL,
		chunk_overlap INTEGER NOT NULL,
		built_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_built ON builds(built_at DESC);

	CREATE TABLE IF NOT EXISTS chunks (
		id          TEXT PRIMARY KEY,
		build_id    TEXT NOT NULL REFERENCES builds(id),
		seq         INTEGER NOT NULL,
		source_path TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		text        TEXT NOT NULL,
		date        TEXT NOT NULL DEFAULT '',
		author      TEXT NOT NULL DEFAULT '',
		role        TEXT NOT NULL DEFAULT 'unknown',
		source_type TEXT NOT NULL DEFAULT 'unknown',
		citation    TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT ''
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_chunks_seq ON chunks(seq);
	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_path, chunk_index);
	CREATE INDEX IF NOT EXISTS idx_chunks_role ON chunks(role);
	CREATE INDEX IF NOT EXISTS idx_chunks_source_type ON chunks(source_type);
	CREATE INDEX IF NOT EXISTS idx_chunks_date ON chunks(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceChunks records the build and replaces every catalogued chunk in one transaction.
// An empty summary BuildID is filled with a fresh ULID.
func (s *SQLiteStore) ReplaceChunks(ctx context.Context, summary *model.IndexSummary, chunks []model.Chunk) error {
	if summary == nil {
		return errors.New("replace chunks: nil build summary")
	}
	if summary.BuildID == "" {
		summary.BuildID = s.newID()
	}
	builtAt := summary.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, model, dimensions, chunk_count, corpus_files, chunk_chars, chunk_overlap, built_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.BuildID, summary.Model, summary.Dimensions, len(chunks), summary.CorpusFiles,
		summary.ChunkChars, summary.ChunkOverlap, builtAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, build_id, seq, source_path, chunk_index, text, date, author, role, source_type, citation, url, title)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		_, err = stmt.ExecContext(ctx,
			c.ID, summary.BuildID, i, c.SourcePath, c.ChunkIndex, c.Text,
			c.Date, c.Author, string(c.Role), string(c.SourceType), c.Citation, c.URL, c.Title)
		if err != nil {
			return fmt.Errorf("insert chunk %s#%d: %w", c.SourcePath, c.ChunkIndex, err)
		}
	}

	return tx.Commit()
}

// LatestBuild returns the most recently recorded build.
func (s *SQLiteStore) LatestBuild(ctx context.Context) (*model.IndexSummary, error) {
	var b model.IndexSummary
	var builtAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, model, dimensions, chunk_count, corpus_files, chunk_chars, chunk_overlap, built_at
		 FROM builds ORDER BY built_at DESC, id DESC LIMIT 1`).Scan(
		&b.BuildID, &b.Model, &b.Dimensions, &b.Chunks, &b.CorpusFiles,
		&b.ChunkChars, &b.ChunkOverlap, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
	return &b, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const chunkColumns = `c.seq, c.id, c.source_path, c.chunk_index, c.text, c.date, c.author, c.role, c.source_type, c.citation, c.url, c.title`

func scanChunk(row scanner) (SearchResult, error) {
	var r SearchResult
	var role, sourceType string

	err := row.Scan(
		&r.Seq, &r.ID, &r.SourcePath, &r.ChunkIndex, &r.Text,
		&r.Date, &r.Author, &role, &sourceType, &r.Citation, &r.URL, &r.Title,
	)
	if err != nil {
		return r, err
	}
	r.Role = model.ParseRole(role)
	r.SourceType = model.ParseSourceType(sourceType)
	return r, nil
}
