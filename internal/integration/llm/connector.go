package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/common"
	pkghttp "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const ServiceProviderName = "service"

// Connector talks to the internal LLM microservice.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector("llm-service", cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

func (c *Connector) Name() string {
	return ServiceProviderName
}

func (c *Connector) Available() bool {
	return c.config.Url != ""
}

// Generate asks the LLM service for an answer grounded in the given context
func (c *Connector) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	if !c.Available() {
		return nil, entity.ErrProviderUnavailable
	}

	ctxzap.Debug(ctx, "generating response via LLM service")

	body := entity.LLMServiceRequest{
		Query:       userPrompt(req),
		Context:     systemPrompt(req),
		Language:    req.Language,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var resp entity.LLMServiceResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, body, &resp)
	if err != nil {
		return nil, fmt.Errorf("llm service generate: %w", err)
	}

	if strings.TrimSpace(resp.Response) == "" {
		return nil, fmt.Errorf("%w: llm service returned an empty response", entity.ErrProviderFailure)
	}

	ctxzap.Debug(ctx, "response generated via LLM service",
		zap.String("model", resp.Model),
		zap.Int("tokens_used", resp.TokensUsed),
	)

	return &entity.Generation{
		Content: resp.Response,
		Model:   resp.Model,
		Tokens:  resp.TokensUsed,
	}, nil
}
