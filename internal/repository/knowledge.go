package repository

import (
	"context"
	"sort"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/embedding"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

// KnowledgeStore defines the interface for knowledge chunk persistence and similarity lookup
type KnowledgeStore interface {
	Upsert(ctx context.Context, chunk *entity.KnowledgeChunk) error
	Query(ctx context.Context, q entity.VectorQuery) ([]entity.ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

type sequencedChunk struct {
	seq   int64
	chunk *entity.KnowledgeChunk
}

func matches(c *entity.KnowledgeChunk, q entity.VectorQuery) bool {
	if q.Language != "" && c.Language != q.Language {
		return false
	}
	if q.DocumentType != "" && c.DocumentType != q.DocumentType {
		return false
	}
	return true
}

// rankChunks scores candidates against the query vector and returns at most
// limit of them, best first. Equal scores keep insertion order.
func rankChunks(candidates []sequencedChunk, vector []float32, limit int) []entity.ScoredChunk {
	type scored struct {
		seq   int64
		score float64
		chunk *entity.KnowledgeChunk
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{
			seq:   c.seq,
			score: embedding.CosineSimilarity(vector, c.chunk.Embedding),
			chunk: c.chunk,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].seq < ranked[j].seq
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]entity.ScoredChunk, len(ranked))
	for i, r := range ranked {
		results[i] = entity.ScoredChunk{Chunk: r.chunk, Score: r.score}
	}
	return results
}
