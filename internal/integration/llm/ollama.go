package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/ollama/ollama/api"
)

const OllamaProviderName = "ollama"

// OllamaProvider generates answers with a self-hosted Ollama model.
type OllamaProvider struct {
	client *api.Client
	model  string
}

func NewOllamaProvider(cfg config.OllamaConfig) (*OllamaProvider, error) {
	if cfg.URL == "" {
		return &OllamaProvider{model: cfg.Model}, nil
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	hc := &http.Client{Timeout: cfg.Timeout}

	return &OllamaProvider{
		client: api.NewClient(parsed, hc),
		model:  cfg.Model,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return OllamaProviderName
}

func (p *OllamaProvider) Available() bool {
	return p.client != nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	if !p.Available() {
		return nil, entity.ErrProviderUnavailable
	}

	var result *api.GenerateResponse

	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	err := p.client.Generate(ctx, &api.GenerateRequest{
		Model:   p.model,
		System:  systemPrompt(req),
		Prompt:  userPrompt(req),
		Stream:  &[]bool{false}[0],
		Options: options,
	}, func(resp api.GenerateResponse) error {
		result = &resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	if result == nil || strings.TrimSpace(result.Response) == "" {
		return nil, fmt.Errorf("%w: ollama returned no content", entity.ErrProviderFailure)
	}

	return &entity.Generation{
		Content: result.Response,
		Model:   result.Model,
		Tokens:  result.PromptEvalCount + result.EvalCount,
	}, nil
}
