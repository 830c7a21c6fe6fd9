package knowledge

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gonum.org/v1/gonum/floats"

	"mindgraph/internal/apperr"
	"mindgraph/internal/logger"
)

// Factory builds the embedder handle. It runs at most once per successful Initialize.
type Factory func(ctx context.Context) (Embedder, error)

type ServiceOptions struct {
	// BatchSize is the number of texts per embedder call.
	BatchSize int
	// Concurrency bounds the number of in-flight embedder calls per request.
	Concurrency int
}

func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{BatchSize: 16, Concurrency: 4}
}

// Service owns the process-wide embedder handle. Concurrent callers of Initialize
// share one in-flight load; a failed load may be retried by a later call.
type Service struct {
	factory Factory
	opts    ServiceOptions
	log     *logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	inner Embedder
}

func NewService(factory Factory, opts ServiceOptions, log *logger.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultServiceOptions().BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultServiceOptions().Concurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{factory: factory, opts: opts, log: log}
}

// NewServiceWith wraps an already constructed embedder; the service is ready at once.
func NewServiceWith(e Embedder, opts ServiceOptions, log *logger.Logger) *Service {
	s := NewService(func(context.Context) (Embedder, error) { return e, nil }, opts, log)
	s.inner = e
	return s
}

func (s *Service) Initialize(ctx context.Context) error {
	if s.Ready() {
		return nil
	}
	_, err, shared := s.group.Do("init", func() (any, error) {
		if s.Ready() {
			return nil, nil
		}
		e, err := s.factory(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.inner = e
		s.mu.Unlock()
		s.log.Info("embedding model ready", "dimension", e.Dimension())
		return nil, nil
	})
	if err != nil {
		s.log.Error("embedding model failed to load", "error", err, "shared", shared)
		return apperr.EmbeddingUnavailable(err)
	}
	return nil
}

func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner != nil
}

func (s *Service) embedder() Embedder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner
}

// EmbedAll returns one L2-normalized vector per text, in input order. It returns only after
// every batch has completed; any failure fails the whole call.
func (s *Service) EmbedAll(ctx context.Context, texts []string) ([]Vector, error) {
	e := s.embedder()
	if e == nil {
		return nil, apperr.EmbeddingUnavailable(fmt.Errorf("embedding model is not initialized"))
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]Vector, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for start := 0; start < len(texts); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(texts))
		g.Go(func() error {
			vecs, err := e.Embed(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embedding count mismatch: got %d, expected %d", len(vecs), end-start)
			}
			for i, v := range vecs {
				out[start+i] = normalize(v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.EmbeddingUnavailable(err)
	}

	dim := len(out[0])
	for i, v := range out {
		if len(v) == 0 || len(v) != dim {
			return nil, apperr.EmbeddingUnavailable(fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(v), dim))
		}
	}
	return out, nil
}

func (s *Service) Embed(ctx context.Context, text string) (Vector, error) {
	vecs, err := s.EmbedAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func normalize(v []float32) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	if norm := floats.Norm(out, 2); norm > 0 {
		floats.Scale(1/norm, out)
	}
	return out
}
