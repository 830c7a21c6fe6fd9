package knowledge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultGeminiModel = "text-embedding-004"

	geminiBatchSize  = 50
	geminiBatchEvery = 700 * time.Millisecond
	geminiRetryDelay = 6 * time.Second
	geminiMaxRetries = 5
)

// GeminiEmbedder implements Embedder using Google's Gemini API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
	limiter   *rate.Limiter
}

func NewGeminiEmbedder(ctx context.Context, apiKey string, modelName string, dim int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiEmbedder{
		client:    client,
		model:     modelName,
		dimension: dim,
		limiter:   rate.NewLimiter(rate.Every(geminiBatchEvery), 1),
	}, nil
}

func (g *GeminiEmbedder) Dimension() int {
	return g.dimension
}

func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	em := g.client.EmbeddingModel(g.model)
	results := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += geminiBatchSize {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		end := min(i+geminiBatchSize, len(texts))
		batch := em.NewBatch()
		for _, text := range texts[i:end] {
			batch.AddContent(genai.Text(text))
		}

		var res *genai.BatchEmbedContentsResponse
		var err error
		for attempt := 0; attempt <= geminiMaxRetries; attempt++ {
			res, err = em.BatchEmbedContents(ctx, batch)
			if err == nil {
				break
			}
			if !isRateLimitError(err) || attempt == geminiMaxRetries {
				return nil, fmt.Errorf("failed to embed text: %w", err)
			}
			if !waitOrCancel(ctx, geminiRetryDelay) {
				return nil, ctx.Err()
			}
		}

		if len(res.Embeddings) != end-i {
			return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(res.Embeddings), end-i)
		}
		for _, emb := range res.Embeddings {
			results = append(results, emb.Values)
		}
	}
	return results, nil
}

func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(s, "quota")
}

func waitOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
