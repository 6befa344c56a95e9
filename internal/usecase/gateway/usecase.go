package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/cache"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GatewayUsecase serves hydrological data cache-first and never fails on
// infrastructure errors: it degrades to static fallback payloads instead.
type GatewayUsecase struct {
	upstream UpstreamConnector
	store    cache.Store
	regions  *entity.RegionRegistry
	cfg      config.IngresConfig
	now      func() time.Time
	logger   *zap.Logger
}

func NewUsecase(
	upstream UpstreamConnector,
	store cache.Store,
	regions *entity.RegionRegistry,
	cfg config.IngresConfig,
	logger *zap.Logger,
) *GatewayUsecase {
	return &GatewayUsecase{
		upstream: upstream,
		store:    store,
		regions:  regions,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// ResolveRegion validates a district name against the reference regions.
func (uc *GatewayUsecase) ResolveRegion(name string) (entity.ReferenceRegion, error) {
	if entity.NormalizeName(name) == "" {
		return entity.ReferenceRegion{}, fmt.Errorf("%w: district is empty", entity.ErrInvalidQuery)
	}

	region, ok := uc.regions.Lookup(name)
	if !ok {
		return entity.ReferenceRegion{}, fmt.Errorf("%w: %s", entity.ErrRegionNotFound, name)
	}

	return region, nil
}

// Fetch returns one kind of data for a district.
// Only ErrInvalidQuery and ErrRegionNotFound are returned as errors.
func (uc *GatewayUsecase) Fetch(
	ctx context.Context,
	dataType entity.DataType,
	subject string,
	q entity.Qualifiers,
) (*entity.StructuredResult, error) {
	if dataType == entity.DataTypeDistricts {
		return uc.Districts(ctx)
	}

	if !dataType.IsFacet() {
		return nil, fmt.Errorf("%w: unknown data type %q", entity.ErrInvalidQuery, dataType)
	}

	region, err := uc.ResolveRegion(subject)
	if err != nil {
		return nil, err
	}

	return uc.fetchFacet(ctx, dataType, region, q), nil
}

// Districts returns the district listing, cached for DistrictsTTL.
func (uc *GatewayUsecase) Districts(ctx context.Context) (*entity.StructuredResult, error) {
	key := cache.Key(string(entity.DataTypeDistricts))

	return uc.resolve(ctx, entity.DataTypeDistricts, "", key, entity.Qualifiers{}, uc.cfg.DistrictsTTL,
		func() []byte {
			return fallbackPayload(entity.DataTypeDistricts, entity.ReferenceRegion{}, entity.Qualifiers{}, uc.regions)
		},
	), nil
}

// FetchFacets fetches the four facets of a district concurrently. Facet
// failures are reported per facet and never fail the aggregate.
func (uc *GatewayUsecase) FetchFacets(
	ctx context.Context,
	district string,
	q entity.Qualifiers,
) (*entity.LiveData, error) {
	region, err := uc.ResolveRegion(district)
	if err != nil {
		return nil, err
	}

	facets := entity.Facets()
	results := make([]*entity.FacetResult, len(facets))

	var g errgroup.Group
	for i, dataType := range facets {
		g.Go(func() error {
			res := uc.fetchFacet(ctx, dataType, region, q)
			results[i] = &entity.FacetResult{
				DataType:  dataType,
				Available: res.Source != entity.SourceFallback,
				Result:    res,
			}
			return nil
		})
	}
	_ = g.Wait()

	live := &entity.LiveData{
		District: region.Name,
		Facets:   make(map[entity.DataType]*entity.FacetResult, len(facets)),
	}
	for _, r := range results {
		live.Facets[r.DataType] = r
	}

	ctxzap.Info(ctx, "live data aggregated",
		zap.String("district", region.Name),
		zap.Int("available", len(live.Available())),
		zap.Int("unavailable", len(live.Unavailable())),
		zap.String("source", string(live.Source())),
	)

	return live, nil
}

func (uc *GatewayUsecase) fetchFacet(
	ctx context.Context,
	dataType entity.DataType,
	region entity.ReferenceRegion,
	q entity.Qualifiers,
) *entity.StructuredResult {
	q = q.ForType(dataType, uc.now())

	return uc.resolve(ctx, dataType, region.Key(), cacheKey(dataType, region, q), q, uc.cfg.CacheTTL,
		func() []byte {
			return fallbackPayload(dataType, region, q, uc.regions)
		},
	)
}

// resolve runs cache read, upstream call, cache write and fallback in that order.
func (uc *GatewayUsecase) resolve(
	ctx context.Context,
	dataType entity.DataType,
	subject string,
	key string,
	q entity.Qualifiers,
	ttl time.Duration,
	fallback func() []byte,
) *entity.StructuredResult {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("data_type", string(dataType)),
		zap.String("cache_key", key),
	))

	result := &entity.StructuredResult{
		DataType: dataType,
		Subject:  subject,
	}

	cached, hit, err := uc.store.Get(ctx, key)
	if err != nil {
		ctxzap.Warn(ctx, "cache read failed, treating as miss", zap.Error(err))
	}
	if err == nil && hit {
		ctxzap.Debug(ctx, "cache hit")
		result.Source = entity.SourceCache
		result.Payload = cached
		result.FetchedAt = uc.now()
		return result
	}

	callCtx := ctx
	if uc.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.cfg.RequestTimeout)
		defer cancel()
	}

	data, err := uc.upstream.Fetch(callCtx, dataType, subject, q)
	if err != nil {
		ctxzap.Warn(ctx, "upstream fetch failed, serving fallback data", zap.Error(err))
		result.Source = entity.SourceFallback
		result.Degraded = true
		result.Payload = fallback()
		result.FetchedAt = uc.now()
		return result
	}

	if err := uc.store.Set(ctx, key, data, ttl); err != nil {
		ctxzap.Warn(ctx, "cache write failed", zap.Error(err))
	}

	result.Source = entity.SourceLive
	result.Payload = data
	result.FetchedAt = uc.now()
	return result
}

// cacheKey includes only the qualifiers that change the upstream answer.
func cacheKey(dataType entity.DataType, region entity.ReferenceRegion, q entity.Qualifiers) string {
	switch dataType {
	case entity.DataTypeGroundwaterLevel:
		return cache.Key(string(dataType), region.Key(), q.Season, q.Block)
	case entity.DataTypeRainfall:
		return cache.Key(string(dataType), region.Key(), strconv.Itoa(q.Year))
	default:
		return cache.Key(string(dataType), region.Key())
	}
}
