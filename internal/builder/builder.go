package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api"
	chatapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/chat"
	ingresapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/ingres"
	knowledgeapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/knowledge"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram"
	"go.uber.org/zap"
)

// httpTimeoutMargin keeps the router and server deadlines above the pipeline deadline.
const httpTimeoutMargin = 5 * time.Second

const dbPingTimeout = 5 * time.Second

func Build() (*App, error) {
	ctx := context.Background()

	cfg, logger, err := load()
	if err != nil {
		return nil, err
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	services, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup services: %w", err)
	}

	if err := services.Init(ctx); err != nil {
		services.Close()
		return nil, err
	}

	v := validator.New()
	handlers := api.Handlers{
		Chat:      chatapi.NewHandler(services.Query, v),
		Ingres:    ingresapi.NewHandler(services.Gateway, v),
		Knowledge: knowledgeapi.NewHandler(services.Knowledge, v),
	}
	logger.Info("API handlers initialized")

	handlerTimeout := cfg.QueryCfg.RequestTimeout + httpTimeoutMargin
	router := api.SetupRouter(handlers, services, handlerTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: handlerTimeout + httpTimeoutMargin,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		services: services,
		logger:   logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*BotApp, error) {
	ctx := context.Background()

	cfg, logger, err := load()
	if err != nil {
		return nil, err
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	services, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup services: %w", err)
	}

	if err := services.Init(ctx); err != nil {
		services.Close()
		return nil, err
	}

	regions := services.Regions.List()
	districts := make([]string, 0, len(regions))
	for _, r := range regions {
		districts = append(districts, r.Name)
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, services.Query, services.Gateway, districts, logger)
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &BotApp{
		bot:      bot,
		services: services,
		logger:   logger,
	}, nil
}

func load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, logger, nil
}
