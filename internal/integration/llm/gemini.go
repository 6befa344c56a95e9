package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const GeminiProviderName = "gemini"

// GeminiProvider generates answers with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return &GeminiProvider{model: cfg.Model}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return GeminiProviderName
}

func (p *GeminiProvider) Available() bool {
	return p.client != nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	if !p.Available() {
		return nil, entity.ErrProviderUnavailable
	}

	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt(req))}}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.SetTemperature(req.Temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	content := responseText(resp)
	if content == "" {
		return nil, fmt.Errorf("%w: gemini returned no content", entity.ErrProviderFailure)
	}

	gen := &entity.Generation{
		Content: content,
		Model:   p.model,
	}
	if resp.UsageMetadata != nil {
		gen.Tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return gen, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return strings.TrimSpace(b.String())
}
