package knowledge

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

// VectorStore persists chunks and answers similarity queries.
type VectorStore interface {
	Upsert(ctx context.Context, chunk *entity.KnowledgeChunk) error
	Query(ctx context.Context, q entity.VectorQuery) ([]entity.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
}

// Embedder turns text into vectors. The same embedder must be used for
// ingestion and search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
