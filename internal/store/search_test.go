package store

import (
	"context"
	"testing"

	"github.com/rcliao/day-intake/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s)

	// Search by text
	results, err := s.Search(ctx, SearchParams{Query: "bread"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].SourcePath != "corpus/a.txt" || results[0].ChunkIndex != 1 {
		t.Errorf("unexpected hit %s#%d", results[0].SourcePath, results[0].ChunkIndex)
	}

	// Search by author
	results, err = s.Search(ctx, SearchParams{Query: "author of corpus/b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Case-insensitive for ASCII
	results, _ = s.Search(ctx, SearchParams{Query: "SNOW"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// No results
	results, err = s.Search(ctx, SearchParams{Query: "musket"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestSearch_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s)

	tests := []struct {
		name string
		p    SearchParams
		want int
	}{
		{"role", SearchParams{Role: model.RoleEnlisted}, 2},
		{"source type", SearchParams{SourceType: model.SourceOrder}, 1},
		{"date", SearchParams{Date: "1776-01-01"}, 2},
		{"query and role", SearchParams{Query: "the", Role: model.RoleCivilian}, 1},
		{"limit", SearchParams{Limit: 3}, 3},
		{"no match", SearchParams{Role: model.RoleDelegate}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Search(ctx, tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.want {
				t.Errorf("expected %d results, got %d", tt.want, len(results))
			}
		})
	}
}
