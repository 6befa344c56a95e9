package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/embedding"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxSearchLimit = 50

type KnowledgeUsecase struct {
	store    VectorStore
	embedder Embedder
	cfg      config.KnowledgeConfig
	now      func() time.Time
	logger   *zap.Logger
}

func NewUsecase(
	store VectorStore,
	embedder Embedder,
	cfg config.KnowledgeConfig,
	logger *zap.Logger,
) *KnowledgeUsecase {
	return &KnowledgeUsecase{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// Bootstrap ingests the seed corpus when the store is empty and returns the
// number of chunks added.
func (uc *KnowledgeUsecase) Bootstrap(ctx context.Context) (int, error) {
	count, err := uc.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count chunks: %v", entity.ErrVectorStoreUnavailable, err)
	}

	if count > 0 {
		uc.logger.Info("Knowledge corpus already populated", zap.Int("documents", count))
		return 0, nil
	}

	for _, doc := range seedCorpus {
		chunk := &entity.KnowledgeChunk{
			ID:           ContentID(doc.content),
			Content:      doc.content,
			Language:     doc.language,
			DocumentType: doc.documentType,
			Section:      doc.section,
			Keywords:     doc.keywords,
		}
		if err := uc.ingest(ctx, chunk); err != nil {
			return 0, fmt.Errorf("seed %s/%s: %w", doc.section, doc.language, err)
		}
	}

	uc.logger.Info("Knowledge corpus bootstrapped", zap.Int("documents", len(seedCorpus)))

	return len(seedCorpus), nil
}

// Search returns the chunks most similar to the query text, best first.
// Failures are logged and yield an empty result.
func (uc *KnowledgeUsecase) Search(ctx context.Context, req entity.SearchRequest) []entity.ScoredChunk {
	logger := ctxzap.Extract(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = uc.cfg.TopK
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	threshold := uc.cfg.SimilarityThreshold
	if req.ScoreThreshold != nil {
		threshold = *req.ScoreThreshold
	}

	vector, err := uc.embedder.Embed(ctx, req.Query)
	if err != nil {
		if !errors.Is(err, embedding.ErrEmptyText) {
			logger.Warn("Failed to embed search query", zap.Error(err))
		}
		return []entity.ScoredChunk{}
	}

	results, err := uc.store.Query(ctx, entity.VectorQuery{
		Vector:       vector,
		Language:     req.Language,
		DocumentType: req.DocumentType,
		Limit:        limit,
	})
	if err != nil {
		logger.Warn("Knowledge search failed, continuing without knowledge",
			zap.Error(fmt.Errorf("%w: %v", entity.ErrVectorStoreUnavailable, err)),
		)
		return []entity.ScoredChunk{}
	}

	filtered := make([]entity.ScoredChunk, 0, len(results))
	for _, r := range results {
		if r.Score < threshold {
			break
		}
		filtered = append(filtered, r)
	}

	logger.Debug("Knowledge search completed",
		zap.Int("candidates", len(results)),
		zap.Int("results", len(filtered)),
		zap.Float64("threshold", threshold),
	)

	return filtered
}

// AddDocument ingests a document and returns its content-derived id.
// Adding the same content again updates the existing chunk.
func (uc *KnowledgeUsecase) AddDocument(ctx context.Context, req entity.AddDocumentRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.DocumentType) == "" {
		return "", fmt.Errorf("%w: document_type", entity.ErrMissingField)
	}

	lang := req.Language
	if lang == "" {
		lang = entity.LanguageEnglish
	}
	if !lang.IsSupported() {
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedLanguage, req.Language)
	}

	section, keywords, metadata := splitMetadata(req.Metadata)

	chunk := &entity.KnowledgeChunk{
		ID:           ContentID(req.Content),
		Content:      req.Content,
		Language:     lang,
		DocumentType: strings.TrimSpace(req.DocumentType),
		Section:      section,
		Keywords:     keywords,
		Metadata:     metadata,
	}

	if err := uc.ingest(ctx, chunk); err != nil {
		return "", err
	}

	ctxzap.Extract(ctx).Info("Document added to knowledge base",
		zap.String("id", chunk.ID),
		zap.String("document_type", chunk.DocumentType),
		zap.String("language", string(chunk.Language)),
	)

	return chunk.ID, nil
}

func (uc *KnowledgeUsecase) Count(ctx context.Context) (int, error) {
	count, err := uc.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return count, nil
}

func (uc *KnowledgeUsecase) Stats(ctx context.Context) (*entity.KnowledgeStats, error) {
	count, err := uc.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.KnowledgeStats{
		Documents:          count,
		EmbeddingDimension: uc.embedder.Dimensions(),
		Languages:          entity.SupportedLanguages(),
	}, nil
}

func (uc *KnowledgeUsecase) ingest(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	vector, err := uc.embedder.Embed(ctx, chunk.Content)
	if err != nil {
		if errors.Is(err, embedding.ErrEmptyText) {
			return fmt.Errorf("%w: content has no words", entity.ErrInvalidParameter)
		}
		return fmt.Errorf("%w: embed document: %v", entity.ErrVectorStoreUnavailable, err)
	}

	chunk.Embedding = vector
	chunk.CreatedAt = uc.now()

	if err := uc.store.Upsert(ctx, chunk); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrVectorStoreUnavailable, err)
	}

	return nil
}

// ContentID derives a stable chunk id from the document content.
func ContentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

func splitMetadata(raw map[string]any) (string, []string, map[string]string) {
	var (
		section  string
		keywords []string
	)
	metadata := make(map[string]string, len(raw))

	for k, v := range raw {
		switch k {
		case "section":
			section = fmt.Sprint(v)
		case "keywords":
			keywords = toKeywords(v)
		default:
			metadata[k] = fmt.Sprint(v)
		}
	}

	if len(metadata) == 0 {
		metadata = nil
	}

	return section, keywords, metadata
}

func toKeywords(v any) []string {
	var parts []string

	switch val := v.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		return nil
	}

	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}
