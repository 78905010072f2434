// Package store provides the chunk catalog interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/day-intake/internal/model"
)

// SearchParams holds parameters for searching the catalog.
type SearchParams struct {
	Query      string
	Role       model.Role
	SourceType model.SourceType
	Date       string // exact YYYY-MM-DD match
	Limit      int
}

// SearchResult is a catalog hit. Seq is the chunk's position in the vector index.
type SearchResult struct {
	model.Chunk
	Seq int `json:"seq"`
}

// Store defines the chunk catalog interface.
type Store interface {
	// ReplaceChunks records a build and swaps the catalog contents for chunks.
	// Chunks must be in index order.
	ReplaceChunks(ctx context.Context, summary *model.IndexSummary, chunks []model.Chunk) error

	// Search finds chunks whose text, author or title contain the query.
	Search(ctx context.Context, p SearchParams) ([]SearchResult, error)

	// LatestBuild returns the most recent build, or nil if none was recorded.
	LatestBuild(ctx context.Context) (*model.IndexSummary, error)

	// Stats returns catalog statistics.
	Stats(ctx context.Context, dbPath string) (*Stats, error)

	// Close closes the store.
	Close() error
}
