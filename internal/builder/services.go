package builder

import (
	"context"
	"fmt"
	"io"
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
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/query"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/synthesizer"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services holds the pipeline shared by the HTTP API and the Telegram bot
type Services struct {
	Regions     *entity.RegionRegistry
	Gateway     *gateway.GatewayUsecase
	Knowledge   *knowledge.KnowledgeUsecase
	Synthesizer *synthesizer.SynthesizerUsecase
	Query       *query.QueryUsecase

	cacheStore     cache.Store
	knowledgeStore repository.KnowledgeStore
	db             *pgxpool.Pool
	closers        []io.Closer
	logger         *zap.Logger
}

// NewServices wires every pipeline component. On error, whatever was
// already opened is closed again.
func NewServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Services, err error) {
	s := &Services{
		Regions: entity.NewRegionRegistry(cfg.Regions),
		logger:  logger,
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.cacheStore, err = setupCache(ctx, cfg.CacheCfg, logger)
	if err != nil {
		return nil, err
	}

	var upstream gateway.UpstreamConnector
	if cfg.EnableMocks {
		logger.Info("Using mock groundwater connector", zap.Int64("seed", cfg.IngresCfg.MockSeed))
		upstream = groundwater.NewMockConnector(s.Regions, cfg.IngresCfg.MockSeed, logger)
	} else {
		upstream = groundwater.NewConnector(cfg.IngresCfg, logger)
	}
	s.Gateway = gateway.NewUsecase(upstream, s.cacheStore, s.Regions, cfg.IngresCfg, logger)

	embedder, err := setupEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	s.knowledgeStore, err = s.setupKnowledgeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.Knowledge = knowledge.NewUsecase(s.knowledgeStore, embedder, cfg.KnowledgeCfg, logger)

	history := query.NewHistoryStore(cfg.QueryCfg.HistoryLimit, cfg.QueryCfg.HistoryTTL, cfg.CacheCfg.CleanupInterval)

	chain, err := s.setupProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.Synthesizer = synthesizer.NewUsecase(
		chain,
		synthesizer.NewTemplateProvider(phraseSelector(cfg.SynthesizerCfg)),
		history,
		cfg.SynthesizerCfg,
		logger,
	)

	s.Query = query.NewUsecase(s.Gateway, s.Knowledge, s.Synthesizer, history, cfg.QueryCfg, logger)

	logger.Info("Services initialized",
		zap.Int("regions", s.Regions.Len()),
		zap.String("cache_backend", cfg.CacheCfg.Backend),
		zap.String("knowledge_store", cfg.KnowledgeCfg.Store),
		zap.String("embedder", cfg.KnowledgeCfg.Embedder),
		zap.Int("providers", len(chain)),
	)

	return s, nil
}

// Init seeds the knowledge corpus.
func (s *Services) Init(ctx context.Context) error {
	added, err := s.Knowledge.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap knowledge base: %w", err)
	}

	s.logger.Info("Knowledge base ready", zap.Int("seeded", added))
	return nil
}

func (s *Services) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("Failed to close provider", zap.Error(err))
		}
	}
	if s.knowledgeStore != nil {
		if err := s.knowledgeStore.Close(); err != nil {
			s.logger.Warn("Failed to close knowledge store", zap.Error(err))
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	if s.cacheStore != nil {
		if err := s.cacheStore.Close(); err != nil {
			s.logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
}

func (s *Services) Providers() map[string]bool {
	return s.Synthesizer.Providers()
}

func (s *Services) KnowledgeCount(ctx context.Context) (int, error) {
	return s.Knowledge.Count(ctx)
}

func (s *Services) RegionCount() int {
	return s.Regions.Len()
}

func setupCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (cache.Store, error) {
	if cfg.Backend == "redis" {
		store, err := cache.NewRedisStore(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup redis cache: %w", err)
		}
		return store, nil
	}
	return cache.NewMemoryStore(cfg.CleanupInterval), nil
}

func setupEmbedder(cfg *config.Config) (*embedding.Pool, error) {
	kcfg := cfg.KnowledgeCfg

	var inner embedding.Embedder = embedding.NewHashingEmbedder(kcfg.Dimensions)
	if kcfg.Embedder == "ollama" {
		e, err := embedding.NewOllamaEmbedder(cfg.OllamaCfg.URL, kcfg.OllamaModel, kcfg.Dimensions, kcfg.EmbedTimeout)
		if err != nil {
			return nil, fmt.Errorf("setup ollama embedder: %w", err)
		}
		inner = e
	}

	return embedding.NewPool(inner, kcfg.EmbedWorkers), nil
}

func (s *Services) setupKnowledgeStore(ctx context.Context, cfg *config.Config) (repository.KnowledgeStore, error) {
	if cfg.KnowledgeCfg.Store != "postgres" {
		return repository.NewKnowledgeMemory(), nil
	}

	db, err := setupDatabase(ctx, cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	s.db = db

	s.logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsSource, s.logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return repository.NewKnowledgePostgres(db), nil
}

// setupProviders builds the fallback chain in the configured order.
// Unconfigured providers stay in the chain and are skipped at resolve time.
func (s *Services) setupProviders(ctx context.Context, cfg *config.Config) ([]synthesizer.Step, error) {
	if cfg.EnableMocks {
		s.logger.Info("Using mock response provider")
		return []synthesizer.Step{{
			Provider:   llm.NewMockProvider(s.logger),
			Confidence: cfg.LLMConnectorCfg.Confidence,
		}}, nil
	}

	chain := make([]synthesizer.Step, 0, len(cfg.SynthesizerCfg.Providers))
	for _, name := range cfg.SynthesizerCfg.Providers {
		switch name {
		case llm.OpenAIProviderName:
			chain = append(chain, synthesizer.Step{
				Provider:   llm.NewOpenAIProvider(cfg.OpenAICfg),
				Confidence: cfg.OpenAICfg.Confidence,
			})
		case llm.GeminiProviderName:
			p, err := llm.NewGeminiProvider(ctx, cfg.GeminiCfg)
			if err != nil {
				return nil, err
			}
			s.closers = append(s.closers, p)
			chain = append(chain, synthesizer.Step{Provider: p, Confidence: cfg.GeminiCfg.Confidence})
		case llm.OllamaProviderName:
			p, err := llm.NewOllamaProvider(cfg.OllamaCfg)
			if err != nil {
				return nil, err
			}
			chain = append(chain, synthesizer.Step{Provider: p, Confidence: cfg.OllamaCfg.Confidence})
		case llm.ServiceProviderName:
			chain = append(chain, synthesizer.Step{
				Provider:   llm.NewConnector(cfg.LLMConnectorCfg, s.logger),
				Confidence: cfg.LLMConnectorCfg.Confidence,
			})
		default:
			return nil, fmt.Errorf("unknown response provider %q", name)
		}
	}

	return chain, nil
}

func phraseSelector(cfg config.SynthesizerConfig) synthesizer.PhraseSelector {
	if cfg.PhraseSelection == "first" {
		return synthesizer.FirstPhrase{}
	}

	seed := cfg.PhraseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return synthesizer.NewRandomPhrase(seed)
}
