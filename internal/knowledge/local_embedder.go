package knowledge

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const defaultLocalDimension = 384

var localTokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// LocalEmbedder is a feature-hashing bag of unigrams and bigrams. It is deterministic,
// needs no model download, and gives identical sentences identical vectors.
type LocalEmbedder struct {
	dimension int
}

func NewLocalEmbedder(dim int) *LocalEmbedder {
	return &LocalEmbedder{dimension: effectiveLocalDimension(dim)}
}

func effectiveLocalDimension(dim int) int {
	if dim <= 0 {
		return defaultLocalDimension
	}
	return dim
}

func (l *LocalEmbedder) Dimension() int {
	return l.dimension
}

func (l *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = l.embedOne(text)
	}
	return out, nil
}

func (l *LocalEmbedder) embedOne(text string) []float32 {
	acc := make([]float64, l.dimension)
	tokens := localTokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		l.add(acc, tok, 1)
		if i > 0 {
			l.add(acc, tokens[i-1]+" "+tok, 0.5)
		}
	}

	if norm := floats.Norm(acc, 2); norm > 0 {
		floats.Scale(1/norm, acc)
	}

	vec := make([]float32, l.dimension)
	for i, v := range acc {
		vec[i] = float32(v)
	}
	return vec
}

// add hashes feature into a bucket with a hash-derived sign to spread collisions.
func (l *LocalEmbedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(l.dimension))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	acc[idx] += weight
}
