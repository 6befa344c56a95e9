package query

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/logger"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/synthesizer"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	MaxQueryLength = 1000

	SourceTypeKnowledge = "knowledge"
	SourceTypeLiveData  = "live_data"
	SourceTypeGenerator = "generator"
)

// QueryUsecase runs the query pipeline: live data, knowledge, synthesis.
type QueryUsecase struct {
	gateway     Gateway
	retriever   Retriever
	synthesizer Synthesizer
	history     History
	cfg         config.QueryConfig
	now         func() time.Time
	logger      *zap.Logger
}

func NewUsecase(
	gateway Gateway,
	retriever Retriever,
	synthesizer Synthesizer,
	history History,
	cfg config.QueryConfig,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		gateway:     gateway,
		retriever:   retriever,
		synthesizer: synthesizer,
		history:     history,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}
}

// Answer resolves a question. Only invalid input and unknown locations are
// returned as errors; every other failure degrades the result instead.
func (uc *QueryUsecase) Answer(ctx context.Context, req entity.QueryRequest) (*entity.UnifiedResult, error) {
	start := uc.now()

	text := strings.TrimSpace(req.Query)
	if text == "" {
		return nil, fmt.Errorf("%w: query is empty", entity.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return nil, fmt.Errorf("%w: query longer than %d characters", entity.ErrInvalidQuery, MaxQueryLength)
	}

	lang := req.Language
	if lang == "" {
		lang = entity.LanguageEnglish
	}
	if !lang.IsSupported() {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedLanguage, req.Language)
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = entity.AnonymousUser
	}

	requestID := uuid.NewString()
	ctx = logger.AddFields(ctx,
		zap.String("query_id", requestID),
		zap.String("user_id", userID),
		zap.String("language", string(lang)),
	)

	var region *entity.ReferenceRegion
	if strings.TrimSpace(req.Location) != "" {
		r, err := uc.gateway.ResolveRegion(req.Location)
		if err != nil {
			return nil, err
		}
		region = &r
	}

	if uc.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.RequestTimeout)
		defer cancel()
	}

	var (
		live     *entity.LiveData
		location string
	)
	if region != nil {
		location = region.Name

		var err error
		live, err = uc.gateway.FetchFacets(ctx, region.Name, entity.Qualifiers{Season: req.Season})
		if err != nil {
			// The region was resolved above, so this is not expected.
			ctxzap.Warn(ctx, "live data unavailable", zap.Error(err))
			live = nil
		}
	}

	chunks := uc.retriever.Search(ctx, entity.SearchRequest{
		Query:    text,
		Language: lang,
	})

	qctx := entity.QueryContext{
		UserID:   userID,
		Location: location,
		Language: lang,
		History:  uc.history.Recent(userID),
	}

	provider := uc.synthesizer.Resolve(ctx, text, qctx, chunks, live)

	elapsed := uc.now().Sub(start)
	result := &entity.UnifiedResult{
		RequestID:        requestID,
		Response:         provider.Content,
		Confidence:       provider.Confidence,
		Sources:          buildSources(chunks, live, provider),
		Language:         lang,
		Provider:         provider.ProviderID,
		DataSource:       live.Source(),
		Degraded:         live.Degraded() || provider.ProviderID == synthesizer.TemplateProviderName,
		KnowledgeChunks:  len(chunks),
		ProcessingTime:   elapsed,
		ProcessingTimeMS: elapsed.Milliseconds(),
		Timestamp:        uc.now(),
	}
	if live != nil {
		result.FacetsAvailable = live.Available()
		result.FacetsUnavailable = live.Unavailable()
	}

	ctxzap.Info(ctx, "query answered",
		zap.String("provider", result.Provider),
		zap.Float64("confidence", result.Confidence),
		zap.String("data_source", string(result.DataSource)),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("processing_time", elapsed),
	)

	return result, nil
}

// History returns the user's recent exchanges, oldest first.
func (uc *QueryUsecase) History(userID string) *entity.HistoryResponse {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = entity.AnonymousUser
	}

	return &entity.HistoryResponse{
		UserID:    userID,
		Exchanges: uc.history.Recent(userID),
	}
}

func buildSources(chunks []entity.ScoredChunk, live *entity.LiveData, provider *entity.ProviderResult) []entity.SourceRef {
	sources := make([]entity.SourceRef, 0, len(chunks)+2)

	for _, c := range chunks {
		title := c.Chunk.DocumentType
		if c.Chunk.Section != "" {
			title += "/" + c.Chunk.Section
		}
		sources = append(sources, entity.SourceRef{
			Title:     title,
			Type:      SourceTypeKnowledge,
			Relevance: c.Score,
		})
	}

	if s := live.Source(); s != "" {
		sources = append(sources, entity.SourceRef{
			Title: fmt.Sprintf("INGRES groundwater data for %s (%s)", live.District, s),
			Type:  SourceTypeLiveData,
		})
	}

	sources = append(sources, entity.SourceRef{
		Title: provider.ProviderID,
		Type:  SourceTypeGenerator,
	})

	return sources
}
