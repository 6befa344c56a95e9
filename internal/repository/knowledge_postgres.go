package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ KnowledgeStore = &KnowledgePostgres{}

const (
	upsertChunkQuery = `
INSERT INTO knowledge_chunks (id, content, language, document_type, section, keywords, metadata, embedding, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	content = EXCLUDED.content,
	language = EXCLUDED.language,
	document_type = EXCLUDED.document_type,
	section = EXCLUDED.section,
	keywords = EXCLUDED.keywords,
	metadata = EXCLUDED.metadata,
	embedding = EXCLUDED.embedding`

	selectChunksQuery = `
SELECT seq, id, content, language, document_type, section, keywords, metadata, embedding, created_at
FROM knowledge_chunks
WHERE ($1::text = '' OR language = $1::text)
  AND ($2::text = '' OR document_type = $2::text)
ORDER BY seq`

	countChunksQuery = `SELECT COUNT(*) FROM knowledge_chunks`
)

// KnowledgePostgres implements KnowledgeStore on a PostgreSQL table.
// Filtering happens in SQL, scoring in Go.
type KnowledgePostgres struct {
	db *pgxpool.Pool
}

func NewKnowledgePostgres(db *pgxpool.Pool) *KnowledgePostgres {
	return &KnowledgePostgres{db: db}
}

func (r *KnowledgePostgres) Upsert(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	metadata, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshal chunk metadata: %w", err)
	}

	keywords := chunk.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err = r.db.Exec(ctx, upsertChunkQuery,
		chunk.ID,
		chunk.Content,
		string(chunk.Language),
		chunk.DocumentType,
		chunk.Section,
		keywords,
		metadata,
		chunk.Embedding,
		chunk.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert knowledge chunk: %w", err)
	}

	return nil
}

func (r *KnowledgePostgres) Query(ctx context.Context, q entity.VectorQuery) ([]entity.ScoredChunk, error) {
	rows, err := r.db.Query(ctx, selectChunksQuery, string(q.Language), q.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("query knowledge chunks: %w", err)
	}

	candidates, err := pgx.CollectRows(rows, scanChunk)
	if err != nil {
		return nil, fmt.Errorf("scan knowledge chunks: %w", err)
	}

	return rankChunks(candidates, q.Vector, q.Limit), nil
}

func (r *KnowledgePostgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countChunksQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("count knowledge chunks: %w", err)
	}
	return count, nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *KnowledgePostgres) Close() error {
	return nil
}

func scanChunk(row pgx.CollectableRow) (sequencedChunk, error) {
	var (
		seq      int64
		language string
		metadata []byte
		chunk    entity.KnowledgeChunk
	)

	err := row.Scan(
		&seq,
		&chunk.ID,
		&chunk.Content,
		&language,
		&chunk.DocumentType,
		&chunk.Section,
		&chunk.Keywords,
		&metadata,
		&chunk.Embedding,
		&chunk.CreatedAt,
	)
	if err != nil {
		return sequencedChunk{}, err
	}

	chunk.Language = entity.Language(language)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
			return sequencedChunk{}, fmt.Errorf("unmarshal chunk metadata: %w", err)
		}
	}

	return sequencedChunk{seq: seq, chunk: &chunk}, nil
}
