package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	pkghttp "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRequest() *entity.GenerateRequest {
	return &entity.GenerateRequest{
		Query:       "How to check groundwater level?",
		Context:     "Relevant Guidelines:\n- Monitor before and after monsoon",
		Location:    "Nalanda",
		Language:    entity.LanguageEnglish,
		MaxTokens:   200,
		Temperature: 0.2,
	}
}

func serviceConfig(url string) config.LLMConnectorConfig {
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:                   url,
			RequestTimeout:        time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		GenerateEndpoint: "/generate",
	}
}

func TestConnector_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)

		var body entity.LLMServiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "How to check groundwater level?", body.Query)
		assert.Contains(t, body.Context, "User location: Nalanda")
		assert.Contains(t, body.Context, "Monitor before and after monsoon")
		assert.Equal(t, 200, body.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":"Use a water level indicator.","model":"jal-llm","tokens_used":42}`)
	}))
	defer srv.Close()

	c := NewConnector(serviceConfig(srv.URL), zap.NewNop())
	require.True(t, c.Available())
	assert.Equal(t, ServiceProviderName, c.Name())

	gen, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Use a water level indicator.", gen.Content)
	assert.Equal(t, "jal-llm", gen.Model)
	assert.Equal(t, 42, gen.Tokens)
}

func TestConnector_GenerateFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewConnector(serviceConfig(srv.URL), zap.NewNop()).Generate(context.Background(), testRequest())

		var httpErr *pkghttp.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	})

	t.Run("empty response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"response":"   "}`)
		}))
		defer srv.Close()

		_, err := NewConnector(serviceConfig(srv.URL), zap.NewNop()).Generate(context.Background(), testRequest())
		assert.ErrorIs(t, err, entity.ErrProviderFailure)
	})

	t.Run("not configured", func(t *testing.T) {
		c := NewConnector(serviceConfig(""), zap.NewNop())
		assert.False(t, c.Available())

		_, err := c.Generate(context.Background(), testRequest())
		assert.ErrorIs(t, err, entity.ErrProviderUnavailable)
	})
}

func TestHostedProviders_UnconfiguredAreUnavailable(t *testing.T) {
	ctx := context.Background()

	openaiProvider := NewOpenAIProvider(config.OpenAIConfig{Model: "gpt-4"})
	gemini, err := NewGeminiProvider(ctx, config.GeminiConfig{Model: "gemini-1.5-flash"})
	require.NoError(t, err)
	ollama, err := NewOllamaProvider(config.OllamaConfig{Model: "llama3"})
	require.NoError(t, err)

	for _, p := range []interface {
		Name() string
		Available() bool
		Generate(context.Context, *entity.GenerateRequest) (*entity.Generation, error)
	}{openaiProvider, gemini, ollama} {
		assert.False(t, p.Available(), p.Name())
		_, err := p.Generate(ctx, testRequest())
		assert.ErrorIs(t, err, entity.ErrProviderUnavailable, p.Name())
	}

	assert.NoError(t, gemini.Close())
}

func TestOpenAIProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4", body["model"])
		assert.InDelta(t, 0.2, body["temperature"], 1e-6)
		assert.EqualValues(t, 200, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","model":"gpt-4","choices":[{"index":0,"message":{"role":"assistant","content":"Check the nearest piezometer."},"finish_reason":"stop"}],"usage":{"prompt_tokens":20,"completion_tokens":6,"total_tokens":26}}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4"})
	require.True(t, p.Available())

	gen, err := p.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Check the nearest piezometer.", gen.Content)
	assert.Equal(t, 26, gen.Tokens)
}

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body["model"])
		assert.Equal(t, false, body["stream"])
		assert.Contains(t, body["system"], "jalBuddy")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"llama3","response":"Measure with a water level indicator.","done":true,"prompt_eval_count":10,"eval_count":7}`)
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(config.OllamaConfig{URL: srv.URL, Model: "llama3", Timeout: time.Second})
	require.NoError(t, err)
	require.True(t, p.Available())

	gen, err := p.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Measure with a water level indicator.", gen.Content)
	assert.Equal(t, 17, gen.Tokens)
}

func TestMockProvider(t *testing.T) {
	ctx := context.Background()

	p := NewMockProvider(zap.NewNop(), WithMockName("openai"), WithMockContent("canned"))
	gen, err := p.Generate(ctx, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "canned", gen.Content)

	failing := NewMockProvider(zap.NewNop(), WithMockError(errors.New("quota exceeded")))
	_, err = failing.Generate(ctx, testRequest())
	assert.EqualError(t, err, "quota exceeded")

	hi := testRequest()
	hi.Language = entity.LanguageHindi
	hi.Location = ""
	gen, err = NewMockProvider(zap.NewNop()).Generate(ctx, hi)
	require.NoError(t, err)
	assert.Contains(t, gen.Content, "आपके क्षेत्र")
}

func TestUserPrompt_KeepsRecentHistory(t *testing.T) {
	req := testRequest()
	for i := 0; i < 5; i++ {
		req.History = append(req.History, entity.Exchange{
			Query:    fmt.Sprintf("q%d", i),
			Response: fmt.Sprintf("a%d", i),
		})
	}

	prompt := userPrompt(req)
	assert.NotContains(t, prompt, "q1")
	assert.Contains(t, prompt, "q2")
	assert.Contains(t, prompt, "a4")
	assert.True(t, strings.HasSuffix(prompt, "Question: How to check groundwater level?"))

	req.History = nil
	assert.Equal(t, req.Query, userPrompt(req))
}

func TestSystemPrompt_Language(t *testing.T) {
	req := testRequest()
	assert.Contains(t, systemPrompt(req), "Answer in English")

	req.Language = entity.LanguageHindi
	assert.Contains(t, systemPrompt(req), "Answer in Hindi")
}
