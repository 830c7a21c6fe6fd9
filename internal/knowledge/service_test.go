package knowledge

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/apperr"
)

type mockEmbedder struct {
	dim   int
	calls atomic.Int32
	err   error
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	results := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, m.dim)
		v[0] = float32(len(text))
		v[1] = 3
		results[i] = v
	}
	return results, nil
}

func (m *mockEmbedder) Dimension() int { return m.dim }

func TestService_InitializeOnce(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		loads.Add(1)
		<-release
		return &mockEmbedder{dim: 4}, nil
	}, DefaultServiceOptions(), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Initialize(context.Background())
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), loads.Load())
	assert.True(t, svc.Ready())

	require.NoError(t, svc.Initialize(context.Background()))
	assert.Equal(t, int32(1), loads.Load())
}

func TestService_InitializeFailureIsRetryable(t *testing.T) {
	attempts := 0
	svc := NewService(func(ctx context.Context) (Embedder, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("model download failed")
		}
		return &mockEmbedder{dim: 4}, nil
	}, DefaultServiceOptions(), nil)

	err := svc.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindEmbeddingUnavailable))
	assert.False(t, svc.Ready())

	require.NoError(t, svc.Initialize(context.Background()))
	assert.True(t, svc.Ready())
}

func TestService_EmbedAll(t *testing.T) {
	t.Run("Not initialized", func(t *testing.T) {
		svc := NewService(func(ctx context.Context) (Embedder, error) { return &mockEmbedder{dim: 4}, nil }, DefaultServiceOptions(), nil)
		_, err := svc.EmbedAll(context.Background(), []string{"a"})
		assert.True(t, apperr.Is(err, apperr.KindEmbeddingUnavailable))
	})

	t.Run("Order and normalization across batches", func(t *testing.T) {
		m := &mockEmbedder{dim: 4}
		svc := NewServiceWith(m, ServiceOptions{BatchSize: 2, Concurrency: 3}, nil)

		texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
		vecs, err := svc.EmbedAll(context.Background(), texts)
		require.NoError(t, err)
		require.Len(t, vecs, 5)
		assert.Equal(t, int32(3), m.calls.Load())

		for i, v := range vecs {
			l := float64(len(texts[i]))
			norm := math.Sqrt(l*l + 9)
			assert.InDelta(t, l/norm, v[0], 1e-6)
			assert.InDelta(t, 3/norm, v[1], 1e-6)
		}
	})

	t.Run("Embedder failure", func(t *testing.T) {
		svc := NewServiceWith(&mockEmbedder{dim: 4, err: errors.New("boom")}, DefaultServiceOptions(), nil)
		_, err := svc.EmbedAll(context.Background(), []string{"a", "b"})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindEmbeddingUnavailable))
	})

	t.Run("Empty input", func(t *testing.T) {
		svc := NewServiceWith(&mockEmbedder{dim: 4}, DefaultServiceOptions(), nil)
		vecs, err := svc.EmbedAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vecs)
	})
}

type ragged struct{}

func (ragged) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 2+i)
		out[i][0] = 1
	}
	return out, nil
}

func (ragged) Dimension() int { return 0 }

func TestService_RejectsMixedDimensions(t *testing.T) {
	svc := NewServiceWith(ragged{}, ServiceOptions{BatchSize: 8, Concurrency: 1}, nil)
	_, err := svc.EmbedAll(context.Background(), []string{"a", "b"})
	assert.True(t, apperr.Is(err, apperr.KindEmbeddingUnavailable))
}
