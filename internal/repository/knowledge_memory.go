package repository

import (
	"context"
	"sync"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

var _ KnowledgeStore = &KnowledgeMemory{}

// KnowledgeMemory keeps chunks in process and searches them by brute force
type KnowledgeMemory struct {
	mu      sync.RWMutex
	chunks  map[string]sequencedChunk
	nextSeq int64
}

func NewKnowledgeMemory() *KnowledgeMemory {
	return &KnowledgeMemory{
		chunks: make(map[string]sequencedChunk),
	}
}

func (s *KnowledgeMemory) Upsert(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := *chunk
	stored.Embedding = append([]float32(nil), chunk.Embedding...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.chunks[chunk.ID]; ok {
		stored.CreatedAt = existing.chunk.CreatedAt
		s.chunks[chunk.ID] = sequencedChunk{seq: existing.seq, chunk: &stored}
		return nil
	}

	s.nextSeq++
	s.chunks[chunk.ID] = sequencedChunk{seq: s.nextSeq, chunk: &stored}
	return nil
}

func (s *KnowledgeMemory) Query(ctx context.Context, q entity.VectorQuery) ([]entity.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	candidates := make([]sequencedChunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		if matches(c.chunk, q) {
			candidates = append(candidates, c)
		}
	}
	s.mu.RUnlock()

	return rankChunks(candidates, q.Vector, q.Limit), nil
}

func (s *KnowledgeMemory) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *KnowledgeMemory) Close() error {
	return nil
}
