// Package index is a flat inner-product vector index with on-disk persistence.
// Vectors are expected to be unit length, so scores are cosine similarities.
package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rcliao/day-intake/internal/embedding"
)

// Hit is one search result. ID is the position of the vector in insertion order,
// which matches the line number of the chunk in the metadata file.
type Hit struct {
	Score float32
	ID    int
}

// Flat holds every vector and scores queries by brute force.
type Flat struct {
	Dim     int
	Vectors []embedding.Vector
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) *Flat {
	return &Flat{Dim: dim}
}

// Add appends vectors. Their IDs continue from the current size.
func (f *Flat) Add(vecs ...embedding.Vector) error {
	for i, v := range vecs {
		if len(v) != f.Dim {
			return fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(v), f.Dim)
		}
	}
	f.Vectors = append(f.Vectors, vecs...)
	return nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.Vectors) }

// Search returns up to k hits ordered by descending inner product.
func (f *Flat) Search(query embedding.Vector, k int) ([]Hit, error) {
	if len(query) != f.Dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), f.Dim)
	}
	if k <= 0 {
		return nil, nil
	}
	hits := make([]Hit, len(f.Vectors))
	for i, v := range f.Vectors {
		hits[i] = Hit{Score: embedding.Dot(query, v), ID: i}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Save writes the index to path atomically.
func (f *Flat) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(f); err != nil {
		tmp.Close()
		return fmt.Errorf("encode index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads an index written by Save.
func Load(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var f Flat
	if err := gob.NewDecoder(file).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", path, err)
	}
	for i, v := range f.Vectors {
		if len(v) != f.Dim {
			return nil, fmt.Errorf("index %s is corrupt: vector %d has dimension %d, want %d", path, i, len(v), f.Dim)
		}
	}
	return &f, nil
}
