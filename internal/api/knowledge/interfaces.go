package knowledge

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

type KnowledgeUsecase interface {
	AddDocument(ctx context.Context, req entity.AddDocumentRequest) (string, error)
	Search(ctx context.Context, req entity.SearchRequest) []entity.ScoredChunk
	Stats(ctx context.Context) (*entity.KnowledgeStats, error)
}
