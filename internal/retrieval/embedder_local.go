package retrieval

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// LocalEmbedder is the keyless fallback embedding function: a deterministic
// hashed bag-of-words vector. It is far weaker than a learned model but
// keeps retrieval functional (identical text maps to identical vectors, and
// shared vocabulary still pulls related chunks together) when no external
// embedding key is configured.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a LocalEmbedder producing vectors of the given
// dimension, which must match the store's vector column.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = 1536
	}
	return &LocalEmbedder{dims: dims}
}

// GenerateEmbedding hashes each token into a bucket and L2-normalizes the
// resulting counts.
func (e *LocalEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrMissingQuery
	}

	vector := make([]float32, e.dims)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		bucket := int(h.Sum32()) % e.dims
		if bucket < 0 {
			bucket += e.dims
		}
		vector[bucket]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
