package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

var _ Embedder = &OllamaEmbedder{}

// OllamaEmbedder requests embeddings from an Ollama server.
type OllamaEmbedder struct {
	client     *api.Client
	model      string
	dimensions int
}

func NewOllamaEmbedder(baseURL, model string, dimensions int, timeout time.Duration) (*OllamaEmbedder, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	hc := &http.Client{Timeout: timeout}

	return &OllamaEmbedder{
		client:     api.NewClient(parsed, hc),
		model:      model,
		dimensions: dimensions,
	}, nil
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(Tokenize(text)) == 0 {
		return nil, ErrEmptyText
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama embed: no embeddings returned")
	}

	vec := resp.Embeddings[0]
	if len(vec) != e.dimensions {
		return nil, fmt.Errorf("ollama embed: got %d dimensions, expected %d", len(vec), e.dimensions)
	}

	return vec, nil
}
