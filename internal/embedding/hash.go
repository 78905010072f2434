package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// DefaultHashDims is the vector size of the hash embedder.
const DefaultHashDims = 256

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// HashEmbedder is an offline bag-of-words embedder using signed feature hashing.
// It needs no model or network, so it suits tests and air-gapped dry runs.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hash embedder; dims <= 0 uses DefaultHashDims.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDims
	}
	return &HashEmbedder{dims: dims}
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *HashEmbedder) embed(text string) Vector {
	v := make(Vector, e.dims)
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		sign := float32(1)
		if sum>>63 == 1 {
			sign = -1
		}
		v[sum%uint64(e.dims)] += sign
	}
	Normalize(v)
	return v
}

func (e *HashEmbedder) Dims() int     { return e.dims }
func (e *HashEmbedder) Model() string { return fmt.Sprintf("hash/%d", e.dims) }
