package synthesizer

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

// Provider is one response generation strategy in the fallback chain.
type Provider interface {
	Name() string
	// Available reports whether the provider is configured; unavailable providers are skipped.
	Available() bool
	Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error)
}

// HistoryRecorder receives every resolved exchange.
type HistoryRecorder interface {
	Append(userID string, exchange entity.Exchange)
}

// Step is a provider with the baseline confidence reported for its answers.
type Step struct {
	Provider   Provider
	Confidence float64
}
