package knowledge

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEmbedder memoizes vectors per text. Only misses reach the wrapped embedder,
// first in memory and then in the optional persistent store.
type CachedEmbedder struct {
	inner Embedder
	model string
	lru   *lru.Cache[string, []float32]
	store VectorCache
}

func NewCachedEmbedder(inner Embedder, model string, size int, store VectorCache) (*CachedEmbedder, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, model: model, lru: c, store: store}, nil
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	missIdx := map[string][]int{}

	for i, text := range texts {
		if v, ok := c.lru.Get(text); ok {
			out[i] = v
			continue
		}
		if _, seen := missIdx[text]; !seen {
			missing = append(missing, text)
		}
		missIdx[text] = append(missIdx[text], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	if c.store != nil {
		stored, err := c.store.LoadEmbeddings(ctx, c.model, missing)
		if err == nil && len(stored) > 0 {
			remaining := missing[:0:0]
			dim := c.inner.Dimension()
			for _, text := range missing {
				v, ok := stored[text]
				if !ok || (dim > 0 && len(v) != dim) {
					remaining = append(remaining, text)
					continue
				}
				c.fill(out, missIdx[text], text, v)
			}
			missing = remaining
		}
		if len(missing) == 0 {
			return out, nil
		}
	}

	vecs, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(vecs), len(missing))
	}

	fresh := make(map[string][]float32, len(missing))
	for i, text := range missing {
		c.fill(out, missIdx[text], text, vecs[i])
		fresh[text] = vecs[i]
	}
	if c.store != nil {
		// best effort; the in-memory copy already serves this process
		_ = c.store.SaveEmbeddings(ctx, c.model, fresh)
	}
	return out, nil
}

func (c *CachedEmbedder) fill(out [][]float32, idx []int, text string, v []float32) {
	c.lru.Add(text, v)
	for _, i := range idx {
		out[i] = v
	}
}

func (c *CachedEmbedder) Len() int {
	return c.lru.Len()
}
