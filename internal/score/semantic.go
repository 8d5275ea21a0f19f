package score

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrEmbeddingUnavailable wraps any failure of the embedding service. Callers
// must propagate it instead of substituting a default score.
var ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

// Embedder turns texts into vector representations. One vector per input
// text, same order. Implementations are expected to be safe for reuse across
// questions.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Semantic returns the cosine similarity between the embeddings of a student
// answer and a teacher answer, both already normalized. Both texts go to the
// embedder in a single batched call. The result is not clamped: it is
// typically in [0,1] for same-domain text but may be negative.
func Semantic(ctx context.Context, e Embedder, student, teacher string) (float64, error) {
	vecs, err := e.Embed(ctx, []string{student, teacher})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("%w: got %d vectors for 2 texts", ErrEmbeddingUnavailable, len(vecs))
	}
	return Cosine(vecs[0], vecs[1]), nil
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// compare up to the shorter vector; a zero vector yields 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
