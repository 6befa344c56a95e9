package entity

import "time"

const AnonymousUser = "anonymous"

// QueryRequest is a user question entering the pipeline.
type QueryRequest struct {
	Query    string   `json:"query"`
	Language Language `json:"language"`
	UserID   string   `json:"user_id"`
	Location string   `json:"location,omitempty"`
	Season   string   `json:"season,omitempty"`
}

// Exchange is one resolved question and answer.
type Exchange struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	Provider   string    `json:"provider"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// QueryContext carries per-user state into synthesis.
type QueryContext struct {
	UserID   string
	Location string
	Language Language
	History  []Exchange
}

// SourceRef names a piece of provenance for an answer.
type SourceRef struct {
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance,omitempty"`
}

// UnifiedResult is the final answer returned to the caller.
type UnifiedResult struct {
	RequestID         string        `json:"request_id"`
	Response          string        `json:"response"`
	Confidence        float64       `json:"confidence"`
	Sources           []SourceRef   `json:"sources"`
	Language          Language      `json:"language"`
	Provider          string        `json:"provider"`
	DataSource        Source        `json:"data_source,omitempty"`
	Degraded          bool          `json:"degraded"`
	FacetsAvailable   []DataType    `json:"facets_available,omitempty"`
	FacetsUnavailable []DataType    `json:"facets_unavailable,omitempty"`
	KnowledgeChunks   int           `json:"knowledge_chunks"`
	ProcessingTime    time.Duration `json:"-"`
	ProcessingTimeMS  int64         `json:"processing_time_ms"`
	Timestamp         time.Time     `json:"timestamp"`
}

// HistoryResponse lists the recent exchanges of a user.
type HistoryResponse struct {
	UserID    string     `json:"user_id"`
	Exchanges []Exchange `json:"exchanges"`
}
