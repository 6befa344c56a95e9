package handlers

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// QueryUsecase answers questions and keeps per-user history
type QueryUsecase interface {
	Answer(ctx context.Context, req entity.QueryRequest) (*entity.UnifiedResult, error)
	History(userID string) *entity.HistoryResponse
}

// RegionResolver validates district names
type RegionResolver interface {
	ResolveRegion(name string) (entity.ReferenceRegion, error)
}

// Sender is the subset of the Telegram API used by handlers and middleware
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
