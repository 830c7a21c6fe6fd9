package knowledge

import (
	"context"
)

// Embedder defines the interface for converting text to vectors.
// Implementations return one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Vector is an L2-normalized embedding as consumed by clustering.
type Vector = []float64

// VectorCache persists embeddings across runs, keyed by model and text.
type VectorCache interface {
	LoadEmbeddings(ctx context.Context, model string, texts []string) (map[string][]float32, error)
	SaveEmbeddings(ctx context.Context, model string, vectors map[string][]float32) error
}
