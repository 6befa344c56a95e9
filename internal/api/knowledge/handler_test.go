package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/embedding"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/repository"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/knowledge"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	uc := knowledge.NewUsecase(
		repository.NewKnowledgeMemory(),
		embedding.NewHashingEmbedder(384),
		config.KnowledgeConfig{Dimensions: 384, TopK: 5, SimilarityThreshold: 0.1},
		zap.NewNop(),
	)
	_, err := uc.Bootstrap(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New()))
	return r
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddDocumentThenSearch(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/api/v1/knowledge/documents", `{
		"content": "Check-dams on seasonal streams slow runoff and recharge shallow aquifers.",
		"document_type": "guidelines",
		"language": "en",
		"metadata": {"section": "check_dams", "keywords": ["check-dam", "recharge"]}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added entity.AddDocumentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&added))
	assert.Len(t, added.ID, 16)

	rec = post(t, h, "/api/v1/knowledge/search", `{"query":"check-dams seasonal streams runoff","language":"en","limit":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var found entity.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	require.NotEmpty(t, found.Results)
	assert.Equal(t, len(found.Results), found.Total)
	assert.LessOrEqual(t, found.Total, 3)
	assert.Equal(t, added.ID, found.Results[0].Chunk.ID)
}

func TestAddDocument_Validation(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/v1/knowledge/documents", `{"document_type":"guidelines"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/v1/knowledge/documents", `{"content":"x","document_type":"g","language":"ta"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/v1/knowledge/documents", `not json`).Code)
}

func TestSearch_Validation(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/v1/knowledge/search", `{"query":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/v1/knowledge/search", `{"query":"q","limit":500}`).Code)
}

func TestSearch_HighThresholdReturnsEmpty(t *testing.T) {
	rec := post(t, newTestRouter(t), "/api/v1/knowledge/search", `{"query":"borewell depth","score_threshold":1.01}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var found entity.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Zero(t, found.Total)
	assert.NotNil(t, found.Results)
}

func TestStats(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats entity.KnowledgeStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 8, stats.Documents)
	assert.Equal(t, 384, stats.EmbeddingDimension)
}
