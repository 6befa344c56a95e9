package chat

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

type QueryUsecase interface {
	Answer(ctx context.Context, req entity.QueryRequest) (*entity.UnifiedResult, error)
	History(userID string) *entity.HistoryResponse
}
