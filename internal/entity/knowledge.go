package entity

import "time"

// Language is a supported corpus and response language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

func SupportedLanguages() []Language {
	return []Language{LanguageHindi, LanguageEnglish}
}

func (l Language) IsSupported() bool {
	return l == LanguageEnglish || l == LanguageHindi
}

// KnowledgeChunk is one retrievable piece of guidance text.
type KnowledgeChunk struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	Language     Language          `json:"language"`
	DocumentType string            `json:"document_type"`
	Section      string            `json:"section,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Embedding    []float32         `json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk *KnowledgeChunk `json:"chunk"`
	Score float64         `json:"score"`
}

// VectorQuery is a similarity lookup against a knowledge store.
type VectorQuery struct {
	Vector       []float32
	Language     Language
	DocumentType string
	Limit        int
}

// SearchRequest asks the retriever for chunks relevant to a text.
type SearchRequest struct {
	Query          string   `json:"query"`
	Language       Language `json:"language,omitempty"`
	DocumentType   string   `json:"document_type,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty"`
}

// AddDocumentRequest ingests a document into the corpus.
type AddDocumentRequest struct {
	Content      string         `json:"content"`
	DocumentType string         `json:"document_type"`
	Language     Language       `json:"language"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AddDocumentResponse is returned by the knowledge ingestion endpoint.
type AddDocumentResponse struct {
	ID string `json:"id"`
}

// SearchResponse is returned by the knowledge search endpoint.
type SearchResponse struct {
	Results []ScoredChunk `json:"results"`
	Total   int           `json:"total"`
}

// KnowledgeStats describes the corpus.
type KnowledgeStats struct {
	Documents          int        `json:"documents"`
	EmbeddingDimension int        `json:"embedding_dimension"`
	Languages          []Language `json:"languages"`
}
