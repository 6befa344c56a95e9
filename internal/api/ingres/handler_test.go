package ingres

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/cache"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/groundwater"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/usecase/gateway"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, opts ...groundwater.MockOption) http.Handler {
	t.Helper()

	regions := entity.NewRegionRegistry([]entity.ReferenceRegion{
		{Name: "Nalanda", State: "Bihar", Geology: "Alluvial", RainfallBaselineMM: 1050, Blocks: []string{"Hilsa", "Rajgir"}},
		{Name: "Anantapur", State: "Andhra Pradesh", Geology: "Hard Rock", RainfallBaselineMM: 580},
	})

	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	logger := zap.NewNop()
	uc := gateway.NewUsecase(
		groundwater.NewMockConnector(regions, 42, logger, opts...),
		store,
		regions,
		config.IngresConfig{CacheTTL: time.Hour, DistrictsTTL: 24 * time.Hour},
		logger,
	)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New()))
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestFacet_LiveThenCached(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/v1/ingres/groundwater/level?district=nalanda&season=pre_monsoon")
	require.Equal(t, http.StatusOK, rec.Code)

	var first entity.StructuredResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&first))
	assert.Equal(t, entity.DataTypeGroundwaterLevel, first.DataType)
	assert.Equal(t, entity.SourceLive, first.Source)
	assert.False(t, first.Degraded)

	var level entity.GroundwaterLevel
	require.NoError(t, json.Unmarshal(first.Payload, &level))
	assert.Equal(t, "Nalanda", level.District)
	assert.Greater(t, level.WaterLevelMBGL, 0.0)

	rec = get(t, h, "/api/v1/ingres/groundwater/level?district=NALANDA&season=Pre_Monsoon")
	require.Equal(t, http.StatusOK, rec.Code)

	var second entity.StructuredResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&second))
	assert.Equal(t, entity.SourceCache, second.Source)
	assert.JSONEq(t, string(first.Payload), string(second.Payload))
}

func TestFacet_FallbackOnUpstreamFailure(t *testing.T) {
	h := newTestRouter(t, groundwater.WithMockFailures(entity.DataTypeWaterQuality))

	rec := get(t, h, "/api/v1/ingres/groundwater/quality?district=Anantapur")
	require.Equal(t, http.StatusOK, rec.Code)

	var result entity.StructuredResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, entity.SourceFallback, result.Source)
	assert.True(t, result.Degraded)
}

func TestFacet_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/ingres/rainfall").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/ingres/rainfall?district=Nalanda&year=abc").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/ingres/drilling/recommendation?district=Atlantis").Code)
}

func TestDistricts(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/v1/ingres/districts")
	require.Equal(t, http.StatusOK, rec.Code)

	var result entity.StructuredResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	var districts []entity.DistrictInfo
	require.NoError(t, json.Unmarshal(result.Payload, &districts))
	require.Len(t, districts, 2)
	assert.Equal(t, "Anantapur", districts[0].Name)
}

func TestSummary_PartialFailure(t *testing.T) {
	h := newTestRouter(t, groundwater.WithMockFailures(entity.DataTypeRainfall))

	rec := get(t, h, "/api/v1/ingres/summary?district=Nalanda")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary entity.FacetSummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, "Nalanda", summary.District)
	assert.Equal(t, entity.SourceFallback, summary.Source)
	assert.True(t, summary.Degraded)
	assert.Equal(t, []entity.DataType{entity.DataTypeRainfall}, summary.FacetsUnavailable)
	assert.Len(t, summary.FacetsAvailable, 3)
	assert.Len(t, summary.Facets, 4)
}
