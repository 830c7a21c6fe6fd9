package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultOllamaModel = "nomic-embed-text"
	defaultOllamaURL   = "http://127.0.0.1:11434"

	ollamaBatchSize  = 64
	ollamaBatchEvery = 200 * time.Millisecond
	ollamaMaxRetries = 3
	ollamaRetryDelay = 2 * time.Second
)

// errOllamaRetryable marks responses worth another attempt: the model is still
// loading or the server is shedding load.
var errOllamaRetryable = errors.New("ollama temporarily unavailable")

// OllamaEmbedder calls a local Ollama server. Every vector it returns has the same
// length: the configured dimension, or the length of the first batch when none is set.
type OllamaEmbedder struct {
	client     *http.Client
	endpoint   string
	model      string
	limiter    *rate.Limiter
	retryDelay time.Duration

	mu        sync.Mutex
	dimension int
	pinned    bool
}

type ollamaEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Truncate   bool     `json:"truncate"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error"`
}

func NewOllamaEmbedder(model string, dim int, baseURL string) *OllamaEmbedder {
	if strings.TrimSpace(model) == "" {
		model = DefaultOllamaModel
	}
	return &OllamaEmbedder{
		client:     &http.Client{Timeout: 90 * time.Second},
		endpoint:   ollamaEndpoint(baseURL),
		model:      model,
		limiter:    rate.NewLimiter(rate.Every(ollamaBatchEvery), 1),
		retryDelay: ollamaRetryDelay,
		dimension:  max(dim, 0),
		pinned:     dim > 0,
	}
}

// ollamaEndpoint accepts a bare host, a host with /api, or the full embed URL.
func ollamaEndpoint(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" {
		u = defaultOllamaURL
	}
	switch {
	case strings.HasSuffix(u, "/api/embed"):
		return u
	case strings.HasSuffix(u, "/api"):
		return u + "/embed"
	default:
		return u + "/api/embed"
	}
}

// Dimension is zero until the first successful call when no dimension was configured.
func (o *OllamaEmbedder) Dimension() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dimension
}

func (o *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += ollamaBatchSize {
		batch := texts[start:min(start+ollamaBatchSize, len(texts))]
		vecs, err := o.embedWithRetry(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("ollama batch at %d: %w", start, err)
		}
		if err := o.checkDimensions(vecs); err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (o *OllamaEmbedder) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= ollamaMaxRetries; attempt++ {
		if attempt > 0 && !waitOrCancel(ctx, o.retryDelay*time.Duration(attempt)) {
			return nil, ctx.Err()
		}
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		vecs, err := o.post(ctx, batch)
		if err == nil {
			return vecs, nil
		}
		if !errors.Is(err, errOllamaRetryable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (o *OllamaEmbedder) post(ctx context.Context, batch []string) ([][]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{
		Model:      o.model,
		Input:      batch,
		Truncate:   true,
		Dimensions: o.requestedDimension(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed ollamaEmbedResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(parsed.Error)
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w (%d): %s", errOllamaRetryable, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("ollama rejected embed request (%d): %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", decodeErr)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama: %s", parsed.Error)
	}
	if len(parsed.Embeddings) != len(batch) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(parsed.Embeddings), len(batch))
	}
	return parsed.Embeddings, nil
}

func (o *OllamaEmbedder) requestedDimension() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pinned {
		return o.dimension
	}
	return 0
}

// checkDimensions rejects empty or ragged batches and pins the length on first use.
func (o *OllamaEmbedder) checkDimensions(vecs [][]float32) error {
	if len(vecs) == 0 {
		return nil
	}
	n := len(vecs[0])
	if n == 0 {
		return fmt.Errorf("ollama returned an empty embedding")
	}
	for i, v := range vecs {
		if len(v) != n {
			return fmt.Errorf("ollama returned mixed embedding lengths: %d and %d at index %d", n, len(v), i)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dimension == 0 {
		o.dimension = n
		return nil
	}
	if n != o.dimension {
		return fmt.Errorf("ollama embedding length %d does not match dimension %d", n, o.dimension)
	}
	return nil
}
