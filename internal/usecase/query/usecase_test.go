package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/cache"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/embedding"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/groundwater"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/llm"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/repository"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/gateway"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/knowledge"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/synthesizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pipeline struct {
	uc      *QueryUsecase
	store   *cache.MemoryStore
	history *HistoryStore
}

type pipelineOpts struct {
	upstreamOpts   []groundwater.MockOption
	providers      []synthesizer.Step
	requestTimeout time.Duration
	historyLimit   int
}

func newPipeline(t *testing.T, opts pipelineOpts) *pipeline {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	regions := entity.NewRegionRegistry(config.DefaultRegions())
	store := cache.NewMemoryStore(time.Minute)
	upstream := groundwater.NewMockConnector(regions, 42, log, opts.upstreamOpts...)
	gw := gateway.NewUsecase(upstream, store, regions, config.IngresConfig{
		CacheTTL:     time.Hour,
		DistrictsTTL: 24 * time.Hour,
	}, log)

	retriever := knowledge.NewUsecase(
		repository.NewKnowledgeMemory(),
		embedding.NewHashingEmbedder(384),
		config.KnowledgeConfig{Dimensions: 384, TopK: 5, SimilarityThreshold: 0.1},
		log,
	)
	_, err := retriever.Bootstrap(ctx)
	require.NoError(t, err)

	limit := opts.historyLimit
	if limit == 0 {
		limit = 10
	}
	history := NewHistoryStore(limit, time.Hour, time.Minute)

	providers := opts.providers
	if providers == nil {
		providers = []synthesizer.Step{
			{Provider: llm.NewMockProvider(log, llm.WithMockName("openai"), llm.WithMockError(errors.New("unauthorized"))), Confidence: 0.9},
			{Provider: llm.NewMockProvider(log, llm.WithMockName("gemini"), llm.WithMockError(errors.New("quota exceeded"))), Confidence: 0.85},
		}
	}

	synth := synthesizer.NewUsecase(providers, synthesizer.NewTemplateProvider(synthesizer.FirstPhrase{}), history,
		config.SynthesizerConfig{
			ProviderTimeout:    time.Second,
			ContextChunks:      3,
			ConfidenceCap:      0.95,
			ChunkBonus:         0.05,
			TemplateConfidence: 0.6,
		}, log)

	timeout := opts.requestTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	uc := NewUsecase(gw, retriever, synth, history, config.QueryConfig{RequestTimeout: timeout}, log)

	return &pipeline{uc: uc, store: store, history: history}
}

func TestAnswer_NalandaWaterLevel(t *testing.T) {
	p := newPipeline(t, pipelineOpts{})

	res, err := p.uc.Answer(context.Background(), entity.QueryRequest{
		Query:    "How to check groundwater level?",
		Language: entity.LanguageEnglish,
		Location: "Nalanda",
	})
	require.NoError(t, err)

	assert.Contains(t, res.Response, "water level indicator")
	assert.Contains(t, res.Response, "Nalanda")
	assert.NotEmpty(t, res.Sources)
	assert.Contains(t, []entity.Source{entity.SourceLive, entity.SourceFallback}, res.DataSource)
	assert.Greater(t, res.Confidence, 0.0)
	assert.Less(t, res.Confidence, 1.0)
	assert.Equal(t, synthesizer.TemplateProviderName, res.Provider)
	assert.True(t, res.Degraded)
	assert.Len(t, res.FacetsAvailable, 4)
	assert.Empty(t, res.FacetsUnavailable)
	assert.NotEmpty(t, res.RequestID)
	assert.False(t, res.Timestamp.IsZero())

	var types []string
	for _, s := range res.Sources {
		types = append(types, s.Type)
	}
	assert.Contains(t, types, SourceTypeLiveData)
	assert.Contains(t, types, SourceTypeGenerator)
}

func TestAnswer_HostedProviderAndCache(t *testing.T) {
	log := zap.NewNop()
	p := newPipeline(t, pipelineOpts{providers: []synthesizer.Step{
		{Provider: llm.NewMockProvider(log, llm.WithMockName("openai"), llm.WithMockContent("Use a piezometer.")), Confidence: 0.9},
	}})
	req := entity.QueryRequest{Query: "groundwater level", Language: entity.LanguageEnglish, Location: "jalgaon", UserID: "u1"}

	first, err := p.uc.Answer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "openai", first.Provider)
	assert.Equal(t, entity.SourceLive, first.DataSource)
	assert.False(t, first.Degraded)
	assert.Equal(t, "Use a piezometer.", first.Response)

	second, err := p.uc.Answer(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceCache, second.DataSource)
	assert.True(t, second.Degraded)
	assert.Equal(t, 4, p.store.Len())
}

func TestAnswer_PartialUpstreamFailure(t *testing.T) {
	p := newPipeline(t, pipelineOpts{
		upstreamOpts: []groundwater.MockOption{groundwater.WithMockFailures(entity.DataTypeWaterQuality)},
	})

	res, err := p.uc.Answer(context.Background(), entity.QueryRequest{Query: "Is the water safe to drink?", Location: "Anantapur"})
	require.NoError(t, err)

	assert.Equal(t, entity.SourceFallback, res.DataSource)
	assert.Equal(t, []entity.DataType{entity.DataTypeWaterQuality}, res.FacetsUnavailable)
	assert.Len(t, res.FacetsAvailable, 3)
	assert.Equal(t, entity.LanguageEnglish, res.Language)
}

func TestAnswer_UnknownDistrict(t *testing.T) {
	p := newPipeline(t, pipelineOpts{})

	_, err := p.uc.Answer(context.Background(), entity.QueryRequest{
		Query:    "water level",
		Language: entity.LanguageEnglish,
		Location: "Atlantis",
	})

	assert.ErrorIs(t, err, entity.ErrRegionNotFound)
	assert.Zero(t, p.store.Len())
	assert.Empty(t, p.history.Recent(entity.AnonymousUser))
}

func TestAnswer_InvalidInput(t *testing.T) {
	p := newPipeline(t, pipelineOpts{})
	ctx := context.Background()

	_, err := p.uc.Answer(ctx, entity.QueryRequest{Query: "   "})
	assert.ErrorIs(t, err, entity.ErrInvalidQuery)

	_, err = p.uc.Answer(ctx, entity.QueryRequest{Query: string(make([]rune, MaxQueryLength+1)) + "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidQuery)

	_, err = p.uc.Answer(ctx, entity.QueryRequest{Query: "water level", Language: "fr"})
	assert.ErrorIs(t, err, entity.ErrUnsupportedLanguage)
}

func TestAnswer_NoLocation(t *testing.T) {
	p := newPipeline(t, pipelineOpts{})

	res, err := p.uc.Answer(context.Background(), entity.QueryRequest{Query: "भूजल स्तर कैसे जांचें?", Language: entity.LanguageHindi})
	require.NoError(t, err)

	assert.Empty(t, res.DataSource)
	assert.Nil(t, res.FacetsAvailable)
	assert.Contains(t, res.Response, "आपके क्षेत्र")
	assert.Equal(t, entity.LanguageHindi, res.Language)
}

func TestAnswer_RequestTimeoutStillAnswers(t *testing.T) {
	p := newPipeline(t, pipelineOpts{
		upstreamOpts:   []groundwater.MockOption{groundwater.WithMockDelay(2 * time.Second)},
		requestTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	res, err := p.uc.Answer(context.Background(), entity.QueryRequest{Query: "borewell depth", Location: "Nalanda"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, synthesizer.TemplateProviderName, res.Provider)
	assert.Equal(t, entity.SourceFallback, res.DataSource)
	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Response)
}

func TestAnswer_HistoryIsBounded(t *testing.T) {
	p := newPipeline(t, pipelineOpts{historyLimit: 3})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := p.uc.Answer(ctx, entity.QueryRequest{Query: fmt.Sprintf("recharge question %d", i), UserID: "farmer-7"})
		require.NoError(t, err)
	}

	h := p.uc.History("farmer-7")
	require.Len(t, h.Exchanges, 3)
	assert.Equal(t, "recharge question 2", h.Exchanges[0].Query)
	assert.Equal(t, "recharge question 4", h.Exchanges[2].Query)

	assert.Empty(t, p.uc.History("someone-else").Exchanges)
}

func TestHistoryStore_RingOrderAndCopy(t *testing.T) {
	h := NewHistoryStore(2, time.Hour, time.Minute)

	h.Append("u", entity.Exchange{Query: "a"})
	assert.Equal(t, "a", h.Recent("u")[0].Query)

	h.Append("u", entity.Exchange{Query: "b"})
	h.Append("u", entity.Exchange{Query: "c"})

	recent := h.Recent("u")
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Query)
	assert.Equal(t, "c", recent[1].Query)

	recent[0].Query = "mutated"
	assert.Equal(t, "b", h.Recent("u")[0].Query)
}

func TestHistoryStore_Expires(t *testing.T) {
	h := NewHistoryStore(5, 20*time.Millisecond, time.Millisecond)
	h.Append("u", entity.Exchange{Query: "a"})

	assert.Eventually(t, func() bool { return len(h.Recent("u")) == 0 }, time.Second, 5*time.Millisecond)
}
