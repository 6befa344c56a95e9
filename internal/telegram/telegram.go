package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/bot"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/handlers"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	queryUC handlers.QueryUsecase,
	regions handlers.RegionResolver,
	districts []string,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	prefs := state.NewStore(cfg.PreferencesTTL, 10*time.Minute)
	b.SetHandler(handlers.NewChatHandler(queryUC, regions, districts, prefs, b.API(), logger))

	logger.Info("telegram bot initialized successfully", zap.Int("districts", len(districts)))

	return b, nil
}
