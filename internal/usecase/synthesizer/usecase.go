package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	pkgRetry "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/retry"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SynthesizerUsecase resolves one answer per query through an ordered
// provider chain that ends in templates.
type SynthesizerUsecase struct {
	chain    []Step
	template *TemplateProvider
	history  HistoryRecorder
	cfg      config.SynthesizerConfig
	now      func() time.Time
	logger   *zap.Logger
}

func NewUsecase(
	chain []Step,
	template *TemplateProvider,
	history HistoryRecorder,
	cfg config.SynthesizerConfig,
	logger *zap.Logger,
) *SynthesizerUsecase {
	if template == nil {
		template = NewTemplateProvider(FirstPhrase{})
	}

	return &SynthesizerUsecase{
		chain:    chain,
		template: template,
		history:  history,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// Resolve always returns a result: when every configured provider fails
// or the context expires the template answer is used.
func (uc *SynthesizerUsecase) Resolve(
	ctx context.Context,
	query string,
	qctx entity.QueryContext,
	chunks []entity.ScoredChunk,
	live *entity.LiveData,
) *entity.ProviderResult {
	logger := ctxzap.Extract(ctx)

	req := &entity.GenerateRequest{
		Query:         query,
		Context:       BuildContext(chunks, live, uc.cfg.ContextChunks),
		Location:      qctx.Location,
		Language:      qctx.Language,
		History:       qctx.History,
		MaxTokens:     uc.cfg.MaxTokens,
		Temperature:   uc.cfg.Temperature,
		DataHighlight: liveHighlight(live, qctx.Language),
	}

	var result *entity.ProviderResult
	for _, step := range uc.chain {
		if ctx.Err() != nil {
			logger.Warn("Request deadline reached, skipping remaining providers", zap.Error(ctx.Err()))
			break
		}

		if !step.Provider.Available() {
			continue
		}

		start := time.Now()
		gen, err := uc.attempt(ctx, step.Provider, req)
		if err != nil {
			logger.Warn("Provider failed, trying next",
				zap.String("provider", step.Provider.Name()),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err),
			)
			continue
		}

		result = uc.toResult(step.Provider.Name(), step.Confidence, gen, len(chunks), time.Since(start))
		break
	}

	if result == nil {
		start := time.Now()
		gen, _ := uc.template.Generate(ctx, req)
		result = uc.toResult(uc.template.Name(), uc.cfg.TemplateConfidence, gen, len(chunks), time.Since(start))
	}

	logger.Info("Response resolved",
		zap.String("provider", result.ProviderID),
		zap.Float64("confidence", result.Confidence),
		zap.Int("knowledge_chunks", result.KnowledgeChunks),
	)

	if uc.history != nil {
		uc.history.Append(qctx.UserID, entity.Exchange{
			ID:         uuid.NewString(),
			Query:      query,
			Response:   result.Content,
			Provider:   result.ProviderID,
			Confidence: result.Confidence,
			Timestamp:  uc.now(),
		})
	}

	return result
}

// Providers reports the availability of every chain step, template included.
func (uc *SynthesizerUsecase) Providers() map[string]bool {
	out := make(map[string]bool, len(uc.chain)+1)
	for _, step := range uc.chain {
		out[step.Provider.Name()] = step.Provider.Available()
	}
	out[uc.template.Name()] = true
	return out
}

func (uc *SynthesizerUsecase) attempt(ctx context.Context, p Provider, req *entity.GenerateRequest) (*entity.Generation, error) {
	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if uc.cfg.ProviderTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, uc.cfg.ProviderTimeout)
	}
	defer cancel()

	var gen *entity.Generation
	err := pkgRetry.Do(attemptCtx, &uc.cfg.Retry, func() error {
		g, err := p.Generate(attemptCtx, req)
		if err != nil {
			return err
		}
		if g == nil || strings.TrimSpace(g.Content) == "" {
			return fmt.Errorf("%w: empty content", entity.ErrProviderFailure)
		}
		gen = g
		return nil
	})
	if err != nil {
		if !errors.Is(err, entity.ErrProviderFailure) {
			err = fmt.Errorf("%w: %w", entity.ErrProviderFailure, err)
		}
		return nil, err
	}

	return gen, nil
}

func (uc *SynthesizerUsecase) toResult(
	provider string,
	baseline float64,
	gen *entity.Generation,
	chunks int,
	latency time.Duration,
) *entity.ProviderResult {
	return &entity.ProviderResult{
		Content:         gen.Content,
		ProviderID:      provider,
		Confidence:      Confidence(uc.cfg, baseline, chunks),
		Tokens:          gen.Tokens,
		Latency:         latency,
		KnowledgeChunks: chunks,
	}
}
