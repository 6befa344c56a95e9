package entity

import "time"

// GenerateRequest is the input of a single response provider call.
type GenerateRequest struct {
	Query       string     `json:"query"`
	Context     string     `json:"context"`
	Location    string     `json:"location,omitempty"`
	Language    Language   `json:"language"`
	History     []Exchange `json:"history,omitempty"`
	MaxTokens   int        `json:"max_tokens"`
	Temperature float32    `json:"temperature"`

	// DataHighlight is a one-line, localized live data note for template answers.
	DataHighlight string `json:"-"`
}

// Generation is the raw output of a provider.
type Generation struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Tokens  int    `json:"tokens_used"`
}

// LLMServiceRequest is the payload of the internal LLM microservice.
type LLMServiceRequest struct {
	Query       string   `json:"query"`
	Context     string   `json:"context"`
	Language    Language `json:"language"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float32  `json:"temperature"`
}

// LLMServiceResponse is the answer of the internal LLM microservice.
type LLMServiceResponse struct {
	Response   string `json:"response"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// ProviderResult is the single response chosen for a query.
type ProviderResult struct {
	Content         string        `json:"content"`
	ProviderID      string        `json:"provider"`
	Confidence      float64       `json:"confidence"`
	Tokens          int           `json:"tokens_used"`
	Latency         time.Duration `json:"latency"`
	KnowledgeChunks int           `json:"knowledge_chunks"`
}
