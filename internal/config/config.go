package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	pkgRetry "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Database configuration, used by the postgres knowledge store
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MigrationsSource    string        `env:"MIGRATIONS_SOURCE" envDefault:"file://internal/repository/migrations"`

	// Pipeline components
	IngresCfg       IngresConfig       `envPrefix:"INGRES_"`
	CacheCfg        CacheConfig        `envPrefix:"CACHE_"`
	KnowledgeCfg    KnowledgeConfig    `envPrefix:"KNOWLEDGE_"`
	SynthesizerCfg  SynthesizerConfig  `envPrefix:"SYNTH_"`
	QueryCfg        QueryConfig        `envPrefix:"QUERY_"`
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`
	OpenAICfg       OpenAIConfig       `envPrefix:"OPENAI_"`
	GeminiCfg       GeminiConfig       `envPrefix:"GEMINI_"`
	OllamaCfg       OllamaConfig       `envPrefix:"OLLAMA_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Reference regions (loaded from YAML file)
	RegionsFile string `env:"REGIONS_FILE" envDefault:"internal/config/regions.yaml"`
	Regions     []entity.ReferenceRegion

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	PreferencesTTL     time.Duration `env:"PREFERENCES_TTL" envDefault:"720h"`
}

// IngresConfig configures the upstream groundwater data service.
type IngresConfig struct {
	HTTPClientConfig
	LevelEndpoint     string        `env:"LEVEL_ENDPOINT" envDefault:"/groundwater/level"`
	QualityEndpoint   string        `env:"QUALITY_ENDPOINT" envDefault:"/groundwater/quality"`
	RainfallEndpoint  string        `env:"RAINFALL_ENDPOINT" envDefault:"/rainfall"`
	DrillingEndpoint  string        `env:"DRILLING_ENDPOINT" envDefault:"/drilling/recommendation"`
	DistrictsEndpoint string        `env:"DISTRICTS_ENDPOINT" envDefault:"/districts"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	DistrictsTTL      time.Duration `env:"DISTRICTS_TTL" envDefault:"24h"`
	MockSeed          int64         `env:"MOCK_SEED" envDefault:"42"`
}

// CacheConfig selects the CacheEntry backend.
type CacheConfig struct {
	Backend         string        `env:"BACKEND" envDefault:"memory"` // memory | redis
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"0"` // 0 expires lazily on Get, no janitor
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix       string        `env:"KEY_PREFIX" envDefault:"jalbuddy:"`
	OpTimeout       time.Duration `env:"OP_TIMEOUT" envDefault:"500ms"`
}

// KnowledgeConfig configures the vector store and the embedder.
type KnowledgeConfig struct {
	Store               string        `env:"STORE" envDefault:"memory"`      // memory | postgres
	Embedder            string        `env:"EMBEDDER" envDefault:"hashing"` // hashing | ollama
	Dimensions          int           `env:"DIMENSIONS" envDefault:"384"`
	TopK                int           `env:"TOP_K" envDefault:"5"`
	SimilarityThreshold float64       `env:"SIMILARITY_THRESHOLD" envDefault:"0.1"`
	EmbedWorkers        int           `env:"EMBED_WORKERS" envDefault:"4"`
	OllamaModel         string        `env:"OLLAMA_MODEL" envDefault:"all-minilm"`
	EmbedTimeout        time.Duration `env:"EMBED_TIMEOUT" envDefault:"10s"`
}

// SynthesizerConfig configures context assembly, the provider chain and confidence scoring.
type SynthesizerConfig struct {
	Providers          []string             `env:"PROVIDERS" envSeparator:"," envDefault:"openai,gemini,ollama,service"`
	ProviderTimeout    time.Duration        `env:"PROVIDER_TIMEOUT" envDefault:"20s"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
	ContextChunks      int                  `env:"CONTEXT_CHUNKS" envDefault:"3"`
	ConfidenceCap      float64              `env:"CONFIDENCE_CAP" envDefault:"0.95"`
	ChunkBonus         float64              `env:"CHUNK_BONUS" envDefault:"0.05"`
	TemplateConfidence float64              `env:"TEMPLATE_CONFIDENCE" envDefault:"0.6"`
	PhraseSelection    string               `env:"PHRASE_SELECTION" envDefault:"random"` // random | first
	PhraseSeed         int64                `env:"PHRASE_SEED" envDefault:"0"`
	MaxTokens          int                  `env:"MAX_TOKENS" envDefault:"500"`
	Temperature        float32              `env:"TEMPERATURE" envDefault:"0.7"`
}

// QueryConfig configures the orchestrator.
type QueryConfig struct {
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	HistoryLimit   int           `env:"HISTORY_LIMIT" envDefault:"10"`
	HistoryTTL     time.Duration `env:"HISTORY_TTL" envDefault:"24h"`
}

// LLMConnectorConfig configures the internal LLM microservice provider.
type LLMConnectorConfig struct {
	HTTPClientConfig
	GenerateEndpoint string  `env:"GENERATE_ENDPOINT" envDefault:"/generate"`
	Confidence       float64 `env:"CONFIDENCE" envDefault:"0.8"`
}

type OpenAIConfig struct {
	APIKey     string  `env:"API_KEY"`
	BaseURL    string  `env:"BASE_URL"`
	Model      string  `env:"MODEL" envDefault:"gpt-4"`
	Confidence float64 `env:"CONFIDENCE" envDefault:"0.9"`
}

type GeminiConfig struct {
	APIKey     string  `env:"API_KEY"`
	Model      string  `env:"MODEL" envDefault:"gemini-1.5-flash"`
	Confidence float64 `env:"CONFIDENCE" envDefault:"0.85"`
}

type OllamaConfig struct {
	URL        string        `env:"URL"`
	Model      string        `env:"MODEL" envDefault:"llama3"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"120s"`
	Confidence float64       `env:"CONFIDENCE" envDefault:"0.8"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"5s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"3s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"5s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	regions, err := LoadRegions(cfg.RegionsFile)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	cfg.Regions = regions

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.IngresCfg.CacheTTL <= 0 || cfg.IngresCfg.DistrictsTTL <= 0 {
		errors = append(errors, "INGRES_CACHE_TTL and INGRES_DISTRICTS_TTL must be positive")
	}

	if !cfg.EnableMocks && cfg.IngresCfg.Url == "" {
		errors = append(errors, "INGRES_SERVICE_URL is required when ENABLE_MOCKS is false")
	}

	switch cfg.CacheCfg.Backend {
	case "memory", "redis":
	default:
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be memory or redis, got %q", cfg.CacheCfg.Backend))
	}

	switch cfg.KnowledgeCfg.Store {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for KNOWLEDGE_STORE=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_STORE must be memory or postgres, got %q", cfg.KnowledgeCfg.Store))
	}

	switch cfg.KnowledgeCfg.Embedder {
	case "hashing":
	case "ollama":
		if cfg.OllamaCfg.URL == "" {
			errors = append(errors, "OLLAMA_URL is required for KNOWLEDGE_EMBEDDER=ollama")
		}
	default:
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_EMBEDDER must be hashing or ollama, got %q", cfg.KnowledgeCfg.Embedder))
	}

	if cfg.KnowledgeCfg.Dimensions < 8 || cfg.KnowledgeCfg.Dimensions > 4096 {
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_DIMENSIONS must be between 8 and 4096, got %d", cfg.KnowledgeCfg.Dimensions))
	}

	if cfg.KnowledgeCfg.TopK < 1 || cfg.KnowledgeCfg.TopK > 50 {
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_TOP_K must be between 1 and 50, got %d", cfg.KnowledgeCfg.TopK))
	}

	if cfg.KnowledgeCfg.SimilarityThreshold < 0 || cfg.KnowledgeCfg.SimilarityThreshold > 1.01 {
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_SIMILARITY_THRESHOLD must be between 0 and 1.01, got %v", cfg.KnowledgeCfg.SimilarityThreshold))
	}

	if cfg.KnowledgeCfg.EmbedWorkers < 1 || cfg.KnowledgeCfg.EmbedWorkers > 64 {
		errors = append(errors, fmt.Sprintf("KNOWLEDGE_EMBED_WORKERS must be between 1 and 64, got %d", cfg.KnowledgeCfg.EmbedWorkers))
	}

	if cfg.SynthesizerCfg.ConfidenceCap <= 0 || cfg.SynthesizerCfg.ConfidenceCap >= 1 {
		errors = append(errors, fmt.Sprintf("SYNTH_CONFIDENCE_CAP must be in (0, 1), got %v", cfg.SynthesizerCfg.ConfidenceCap))
	}

	if cfg.SynthesizerCfg.TemplateConfidence <= 0 || cfg.SynthesizerCfg.TemplateConfidence > cfg.SynthesizerCfg.ConfidenceCap {
		errors = append(errors, "SYNTH_TEMPLATE_CONFIDENCE must be positive and not above SYNTH_CONFIDENCE_CAP")
	}

	for _, baseline := range []float64{cfg.OpenAICfg.Confidence, cfg.GeminiCfg.Confidence, cfg.OllamaCfg.Confidence, cfg.LLMConnectorCfg.Confidence} {
		if baseline <= cfg.SynthesizerCfg.TemplateConfidence {
			errors = append(errors, "hosted provider confidence must be above SYNTH_TEMPLATE_CONFIDENCE")
			break
		}
	}

	switch cfg.SynthesizerCfg.PhraseSelection {
	case "random", "first":
	default:
		errors = append(errors, fmt.Sprintf("SYNTH_PHRASE_SELECTION must be random or first, got %q", cfg.SynthesizerCfg.PhraseSelection))
	}

	if cfg.QueryCfg.HistoryLimit < 1 || cfg.QueryCfg.HistoryLimit > 100 {
		errors = append(errors, fmt.Sprintf("QUERY_HISTORY_LIMIT must be between 1 and 100, got %d", cfg.QueryCfg.HistoryLimit))
	}

	if cfg.QueryCfg.RequestTimeout <= 0 {
		errors = append(errors, "QUERY_REQUEST_TIMEOUT must be positive")
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
