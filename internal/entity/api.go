package entity

import "time"

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse reports the state of the pipeline dependencies.
type HealthResponse struct {
	Status             string          `json:"status"`
	Providers          map[string]bool `json:"providers"`
	KnowledgeDocuments int             `json:"knowledge_documents"`
	Regions            int             `json:"regions"`
	Timestamp          time.Time       `json:"timestamp"`
}

// FacetSummaryResponse is the aggregate of all facets for one district.
type FacetSummaryResponse struct {
	District          string                    `json:"district"`
	Source            Source                    `json:"source"`
	Degraded          bool                      `json:"degraded"`
	FacetsAvailable   []DataType                `json:"facets_available"`
	FacetsUnavailable []DataType                `json:"facets_unavailable"`
	Facets            map[DataType]*FacetResult `json:"facets"`
}
