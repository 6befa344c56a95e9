package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/cache"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/groundwater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upstreamStub struct {
	calls   atomic.Int32
	handler http.HandlerFunc
}

func (u *upstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)
	u.handler(w, r)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	district := r.URL.Query().Get("district")
	w.Write([]byte(`{"status":"success","data":{"district":"` + district + `","path":"` + r.URL.Path + `"},"timestamp":"` + time.Now().Format(time.RFC3339Nano) + `"}`))
}

func testConfig(url string) config.IngresConfig {
	return config.IngresConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:                   url,
			RequestTimeout:        200 * time.Millisecond,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		LevelEndpoint:     "/groundwater/level",
		QualityEndpoint:   "/groundwater/quality",
		RainfallEndpoint:  "/rainfall",
		DrillingEndpoint:  "/drilling/recommendation",
		DistrictsEndpoint: "/districts",
		CacheTTL:          time.Hour,
		DistrictsTTL:      24 * time.Hour,
	}
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*GatewayUsecase, *upstreamStub, *cache.MemoryStore) {
	t.Helper()

	stub := &upstreamStub{handler: handler}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	store := cache.NewMemoryStore(time.Minute)
	regions := entity.NewRegionRegistry(config.DefaultRegions())

	uc := NewUsecase(groundwater.NewConnector(cfg, zap.NewNop()), store, regions, cfg, zap.NewNop())
	uc.now = func() time.Time { return time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC) }

	return uc, stub, store
}

func TestFetch_SecondCallServedFromCache(t *testing.T) {
	uc, stub, _ := newTestGateway(t, okHandler)
	ctx := context.Background()

	first, err := uc.Fetch(ctx, entity.DataTypeGroundwaterLevel, "Nalanda", entity.Qualifiers{Season: "post_monsoon"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceLive, first.Source)
	assert.False(t, first.Degraded)

	second, err := uc.Fetch(ctx, entity.DataTypeGroundwaterLevel, "NALANDA", entity.Qualifiers{Season: "POST_MONSOON"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceCache, second.Source)
	assert.Equal(t, []byte(first.Payload), []byte(second.Payload))

	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestFetch_QualifiersSeparateCacheEntries(t *testing.T) {
	uc, stub, store := newTestGateway(t, okHandler)
	ctx := context.Background()

	_, err := uc.Fetch(ctx, entity.DataTypeRainfall, "nalanda", entity.Qualifiers{Year: 2023})
	require.NoError(t, err)
	_, err = uc.Fetch(ctx, entity.DataTypeRainfall, "nalanda", entity.Qualifiers{Year: 2024})
	require.NoError(t, err)
	// the default year is the current one
	res, err := uc.Fetch(ctx, entity.DataTypeRainfall, "nalanda", entity.Qualifiers{})
	require.NoError(t, err)

	assert.Equal(t, entity.SourceCache, res.Source)
	assert.EqualValues(t, 2, stub.calls.Load())
	assert.Equal(t, 2, store.Len())

	_, ok, _ := store.Get(ctx, "rainfall:nalanda:2024")
	assert.True(t, ok)
}

func TestFetch_UpstreamErrorServesFallback(t *testing.T) {
	uc, stub, store := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx := context.Background()

	res, err := uc.Fetch(ctx, entity.DataTypeGroundwaterLevel, "nalanda", entity.Qualifiers{})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFallback, res.Source)
	assert.True(t, res.Degraded)

	var level entity.GroundwaterLevel
	require.NoError(t, json.Unmarshal(res.Payload, &level))
	assert.Equal(t, "Nalanda", level.District)
	assert.Equal(t, 12.5, level.WaterLevelMBGL)
	assert.Equal(t, "Semi-Critical", level.GECCategory)
	assert.Equal(t, "post_monsoon", level.Season)
	assert.Equal(t, "Live data temporarily unavailable", level.Note)

	again, err := uc.Fetch(ctx, entity.DataTypeGroundwaterLevel, "nalanda", entity.Qualifiers{})
	require.NoError(t, err)
	assert.Equal(t, []byte(res.Payload), []byte(again.Payload))

	// fallback data is never cached, so the upstream is retried
	assert.EqualValues(t, 2, stub.calls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestFetch_UpstreamTimeoutServesFallback(t *testing.T) {
	uc, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	res, err := uc.Fetch(context.Background(), entity.DataTypeWaterQuality, "jalgaon", entity.Qualifiers{})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, entity.SourceFallback, res.Source)
	assert.True(t, res.Degraded)

	var quality entity.WaterQuality
	require.NoError(t, json.Unmarshal(res.Payload, &quality))
	assert.Equal(t, 650.0, quality.Parameters.TDS)
	assert.Equal(t, 0.8, quality.Parameters.Fluoride)
	assert.True(t, quality.Potable)
}

func TestFetch_MalformedPayloadServesFallback(t *testing.T) {
	uc, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	res, err := uc.Fetch(context.Background(), entity.DataTypeRainfall, "anantapur", entity.Qualifiers{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFallback, res.Source)

	var rain entity.Rainfall
	require.NoError(t, json.Unmarshal(res.Payload, &rain))
	assert.Equal(t, 580.0, rain.TotalRainfallMM)
	assert.Equal(t, 2024, rain.Year)
}

func TestFetch_FallbackDrillingUsesUpstreamShape(t *testing.T) {
	uc, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	res, err := uc.Fetch(context.Background(), entity.DataTypeDrilling, "jalgaon", entity.Qualifiers{})
	require.NoError(t, err)
	require.Equal(t, entity.SourceFallback, res.Source)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(res.Payload, &raw))
	assert.EqualValues(t, 65, raw["success_probability_percent"])
	assert.Equal(t, map[string]any{"minimum_m": 100.0, "maximum_m": 200.0}, raw["recommended_depth_range"])
	assert.Equal(t, "Deccan Trap", raw["geology"])
}

func TestFetch_UnknownRegion(t *testing.T) {
	uc, stub, store := newTestGateway(t, okHandler)

	for _, dt := range entity.Facets() {
		_, err := uc.Fetch(context.Background(), dt, "Atlantis", entity.Qualifiers{})
		assert.ErrorIs(t, err, entity.ErrRegionNotFound)
	}

	assert.EqualValues(t, 0, stub.calls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestFetch_InvalidInput(t *testing.T) {
	uc, _, _ := newTestGateway(t, okHandler)

	_, err := uc.Fetch(context.Background(), entity.DataTypeWaterQuality, "   ", entity.Qualifiers{})
	assert.ErrorIs(t, err, entity.ErrInvalidQuery)

	_, err = uc.Fetch(context.Background(), entity.DataType("soil"), "nalanda", entity.Qualifiers{})
	assert.ErrorIs(t, err, entity.ErrInvalidQuery)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, entity.ErrCacheUnavailable
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return entity.ErrCacheUnavailable
}

func (brokenStore) Close() error { return nil }

func TestFetch_CacheFailureIsAMiss(t *testing.T) {
	stub := &upstreamStub{handler: okHandler}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	uc := NewUsecase(groundwater.NewConnector(cfg, zap.NewNop()), brokenStore{},
		entity.NewRegionRegistry(config.DefaultRegions()), cfg, zap.NewNop())

	res, err := uc.Fetch(context.Background(), entity.DataTypeDrilling, "nalanda", entity.Qualifiers{})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceLive, res.Source)
	assert.Contains(t, string(res.Payload), "/drilling/recommendation")
}

func TestFetchFacets_OneFailingFacet(t *testing.T) {
	var (
		mu      sync.Mutex
		arrived int
		allIn   = make(chan struct{})
	)

	uc, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrived++
		if arrived == len(entity.Facets()) {
			close(allIn)
		}
		mu.Unlock()

		// every facet request must be in flight at the same time
		select {
		case <-allIn:
		case <-time.After(150 * time.Millisecond):
		}

		if strings.HasSuffix(r.URL.Path, "/quality") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		okHandler(w, r)
	})

	live, err := uc.FetchFacets(context.Background(), "Nalanda", entity.Qualifiers{})
	require.NoError(t, err)

	select {
	case <-allIn:
	default:
		t.Fatal("facet requests were not issued concurrently")
	}

	assert.Equal(t, "Nalanda", live.District)
	assert.Equal(t, []entity.DataType{
		entity.DataTypeGroundwaterLevel,
		entity.DataTypeRainfall,
		entity.DataTypeDrilling,
	}, live.Available())
	assert.Equal(t, []entity.DataType{entity.DataTypeWaterQuality}, live.Unavailable())
	assert.Equal(t, entity.SourceFallback, live.Source())
	assert.True(t, live.Degraded())

	quality, ok := live.Facet(entity.DataTypeWaterQuality)
	require.True(t, ok)
	assert.True(t, quality.Result.Degraded)
}

func TestFetchFacets_UnknownRegion(t *testing.T) {
	uc, stub, _ := newTestGateway(t, okHandler)

	_, err := uc.FetchFacets(context.Background(), "Atlantis", entity.Qualifiers{})
	assert.True(t, errors.Is(err, entity.ErrRegionNotFound))
	assert.EqualValues(t, 0, stub.calls.Load())
}

func TestDistricts(t *testing.T) {
	uc, stub, store := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[{"name":"Nalanda","state":"Bihar","geology":"Alluvial"}]}`))
	})

	first, err := uc.Fetch(context.Background(), entity.DataTypeDistricts, "", entity.Qualifiers{})
	require.NoError(t, err)
	second, err := uc.Districts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.SourceLive, first.Source)
	assert.Equal(t, entity.SourceCache, second.Source)
	assert.EqualValues(t, 1, stub.calls.Load())

	_, ok, _ := store.Get(context.Background(), "districts")
	assert.True(t, ok)
}

func TestDistricts_FallbackListsRegistry(t *testing.T) {
	uc, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, err := uc.Districts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.SourceFallback, res.Source)

	var districts []entity.DistrictInfo
	require.NoError(t, json.Unmarshal(res.Payload, &districts))
	require.Len(t, districts, 3)
	assert.Equal(t, "Anantapur", districts[0].Name)
}
