package llm

import (
	"context"
	"fmt"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const MockProviderName = "mock"

// MockProvider answers with canned text, or fails on demand.
type MockProvider struct {
	name    string
	content string
	err     error
	logger  *zap.Logger
}

type MockOption func(*MockProvider)

// WithMockName overrides the provider id reported in results.
func WithMockName(name string) MockOption {
	return func(m *MockProvider) {
		m.name = name
	}
}

// WithMockContent sets the answer text.
func WithMockContent(content string) MockOption {
	return func(m *MockProvider) {
		m.content = content
	}
}

// WithMockError makes every Generate call fail with err.
func WithMockError(err error) MockOption {
	return func(m *MockProvider) {
		m.err = err
	}
}

func NewMockProvider(logger *zap.Logger, opts ...MockOption) *MockProvider {
	m := &MockProvider{
		name:   MockProviderName,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Available() bool {
	return true
}

func (m *MockProvider) Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	ctxzap.Info(ctx, "[MOCK] generating response", zap.String("provider", m.name))

	if m.err != nil {
		return nil, m.err
	}

	content := m.content
	if content == "" {
		content = mockAnswer(req)
	}

	ctxzap.Info(ctx, "[MOCK] response generated", zap.Int("length", len(content)))

	return &entity.Generation{
		Content: content,
		Model:   "mock",
		Tokens:  len(content) / 4,
	}, nil
}

func mockAnswer(req *entity.GenerateRequest) string {
	location := req.Location
	if req.Language == entity.LanguageHindi {
		if location == "" {
			location = "आपके क्षेत्र"
		}
		return fmt.Sprintf("(MOCK) %s के लिए भूजल सलाह: \"%s\"", location, req.Query)
	}
	if location == "" {
		location = "your area"
	}
	return fmt.Sprintf("(MOCK) Groundwater advice for %s: %q", location, req.Query)
}
