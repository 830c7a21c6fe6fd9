package knowledge

import (
	"cmp"
	"context"
	"fmt"
	"strings"
)

type EmbedderOptions struct {
	Provider  string
	APIKey    string
	Model     string
	Dimension int
	BaseURL   string
}

// NewEmbedder builds the provider named in opts. The local provider needs no network access
// and is the default.
func NewEmbedder(ctx context.Context, opts EmbedderOptions) (Embedder, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "local"
	}

	switch provider {
	case "local":
		return NewLocalEmbedder(opts.Dimension), nil
	case "gemini":
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, fmt.Errorf("gemini api key is required")
		}
		return NewGeminiEmbedder(ctx, opts.APIKey, opts.Model, opts.Dimension)
	case "openai":
		return NewOpenAIEmbedder(opts.APIKey, opts.Model, opts.Dimension, opts.BaseURL), nil
	case "ollama":
		return NewOllamaEmbedder(opts.Model, opts.Dimension, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", opts.Provider)
	}
}

// ModelName keys the persistent vector cache. It names the effective model and the
// requested dimension, so changing either never mixes old vectors with new ones.
func ModelName(opts EmbedderOptions) string {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "local"
	}
	model := strings.TrimSpace(opts.Model)
	switch provider {
	case "local":
		return fmt.Sprintf("local-hash-%d", effectiveLocalDimension(opts.Dimension))
	case "gemini":
		model = cmp.Or(model, DefaultGeminiModel)
	case "openai":
		model = cmp.Or(model, DefaultOpenAIModel)
	case "ollama":
		model = cmp.Or(model, DefaultOllamaModel)
	}
	return fmt.Sprintf("%s:%s:%d", provider, model, max(opts.Dimension, 0))
}
