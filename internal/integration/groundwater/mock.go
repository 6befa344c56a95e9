package groundwater

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector synthesizes upstream payloads from the reference regions.
// Output depends only on the seed and the request, never on call order.
type MockConnector struct {
	regions   *entity.RegionRegistry
	seed      uint64
	delay     time.Duration
	failTypes map[entity.DataType]bool
	logger    *zap.Logger
}

type MockOption func(*MockConnector)

// WithMockDelay makes every call wait d or until ctx is done.
func WithMockDelay(d time.Duration) MockOption {
	return func(m *MockConnector) {
		m.delay = d
	}
}

// WithMockFailures makes calls for the given data types fail.
func WithMockFailures(types ...entity.DataType) MockOption {
	return func(m *MockConnector) {
		for _, t := range types {
			m.failTypes[t] = true
		}
	}
}

func NewMockConnector(regions *entity.RegionRegistry, seed int64, logger *zap.Logger, opts ...MockOption) *MockConnector {
	m := &MockConnector{
		regions:   regions,
		seed:      uint64(seed),
		failTypes: make(map[entity.DataType]bool),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockConnector) Fetch(
	ctx context.Context,
	dataType entity.DataType,
	district string,
	q entity.Qualifiers,
) (json.RawMessage, error) {
	ctxzap.Info(ctx, "[MOCK] fetching groundwater data",
		zap.String("data_type", string(dataType)),
		zap.String("district", district),
	)

	if err := sleepCtx(ctx, m.delay); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, dataType, err)
	}

	if m.failTypes[dataType] {
		return nil, fmt.Errorf("%w: %s: simulated failure", entity.ErrUpstreamUnavailable, dataType)
	}

	if dataType == entity.DataTypeDistricts {
		return json.Marshal(m.regions.Districts())
	}

	region, ok := m.regions.Lookup(district)
	if !ok {
		return nil, fmt.Errorf("%w: %s: district %q not found", entity.ErrUpstreamUnavailable, dataType, district)
	}

	rng := m.rngFor(dataType, region.Key(), q)

	var payload any
	switch dataType {
	case entity.DataTypeGroundwaterLevel:
		payload = mockLevel(region, q, rng)
	case entity.DataTypeWaterQuality:
		payload = mockQuality(region, rng)
	case entity.DataTypeRainfall:
		payload = mockRainfall(region, q, rng)
	case entity.DataTypeDrilling:
		payload = mockDrilling(region, rng)
	default:
		return nil, fmt.Errorf("%w: data type %q", entity.ErrInvalidParameter, dataType)
	}

	return json.Marshal(payload)
}

func (m *MockConnector) rngFor(dataType entity.DataType, district string, q entity.Qualifiers) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d", dataType, district, q.Season, q.Block, q.Year)
	return rand.New(rand.NewPCG(m.seed, h.Sum64()))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type geologyProfile struct {
	preMonsoon, postMonsoon  float64
	tdsMin, tdsMax           float64
	fluorideMin, fluorideMax float64
	nitrateMin, nitrateMax   float64
	successMin, successMax   float64
	depthMin, depthMax       float64
}

var geologyProfiles = map[string]geologyProfile{
	"alluvial": {
		preMonsoon: 8.5, postMonsoon: 6.2,
		tdsMin: 450, tdsMax: 750, fluorideMin: 0.3, fluorideMax: 0.8, nitrateMin: 10, nitrateMax: 35,
		successMin: 70, successMax: 85, depthMin: 80, depthMax: 150,
	},
	"deccan trap": {
		preMonsoon: 12.3, postMonsoon: 8.7,
		tdsMin: 650, tdsMax: 950, fluorideMin: 0.5, fluorideMax: 1.2, nitrateMin: 20, nitrateMax: 45,
		successMin: 60, successMax: 75, depthMin: 120, depthMax: 200,
	},
	"hard rock": {
		preMonsoon: 25.8, postMonsoon: 22.1,
		tdsMin: 800, tdsMax: 1400, fluorideMin: 0.8, fluorideMax: 2.1, nitrateMin: 35, nitrateMax: 80,
		successMin: 45, successMax: 65, depthMin: 150, depthMax: 250,
	},
}

var defaultProfile = geologyProfile{
	preMonsoon: 15, postMonsoon: 12,
	tdsMin: 400, tdsMax: 1000, fluorideMin: 0.5, fluorideMax: 1.5, nitrateMin: 20, nitrateMax: 50,
	successMin: 60, successMax: 60, depthMin: 100, depthMax: 200,
}

var drillingPrecautions = []string{
	"Ensure NOC from local groundwater authority",
	"Maintain minimum 100m distance from existing borewells",
	"Install proper casing to prevent contamination",
}

func profileFor(region entity.ReferenceRegion) geologyProfile {
	if p, ok := geologyProfiles[strings.ToLower(region.Geology)]; ok {
		return p
	}
	return defaultProfile
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ClassifyLevel maps a depth to water below ground level onto status and GEC category.
func ClassifyLevel(mbgl float64) (status, category string) {
	switch {
	case mbgl < 10:
		return "Good", "Safe"
	case mbgl < 20:
		return "Moderate", "Semi-Critical"
	default:
		return "Poor", "Critical"
	}
}

func mockLevel(region entity.ReferenceRegion, q entity.Qualifiers, rng *rand.Rand) entity.GroundwaterLevel {
	p := profileFor(region)

	base := p.postMonsoon
	season := q.Season
	if season == "" {
		season = entity.DefaultSeason
	}
	if season == "pre_monsoon" {
		base = p.preMonsoon
	}

	block := titleBlock(region, q.Block)
	if block == "" && len(region.Blocks) > 0 {
		block = region.Blocks[rng.IntN(len(region.Blocks))]
	}

	level := round(base+between(rng, -1.5, 1.5), 2)
	status, category := ClassifyLevel(level)

	trends := []string{"stable", "declining", "rising"}

	return entity.GroundwaterLevel{
		District:       region.Name,
		State:          region.State,
		Block:          block,
		WaterLevelMBGL: level,
		Season:         season,
		Status:         status,
		GECCategory:    category,
		Trend:          trends[rng.IntN(len(trends))],
		Source:         "CGWB-INGRES",
	}
}

func mockQuality(region entity.ReferenceRegion, rng *rand.Rand) entity.WaterQuality {
	p := profileFor(region)

	params := entity.QualityParameters{
		TDS:      round(between(rng, p.tdsMin, p.tdsMax), 1),
		Fluoride: round(between(rng, p.fluorideMin, p.fluorideMax), 2),
		Nitrate:  round(between(rng, p.nitrateMin, p.nitrateMax), 1),
		Chloride: round(between(rng, 50, 250), 1),
		PH:       round(between(rng, 6.5, 8.5), 1),
		Hardness: round(between(rng, 150, 450), 1),
	}

	potable, issues := assessQuality(params)

	recommendation := "Safe for drinking"
	if !potable {
		recommendation = "Suitable for irrigation"
	}

	return entity.WaterQuality{
		District:       region.Name,
		State:          region.State,
		Parameters:     params,
		Potable:        potable,
		Issues:         issues,
		Recommendation: recommendation,
		Source:         "CGWB-INGRES",
	}
}

// assessQuality applies the drinking limits: fluoride 1.5 and nitrate 45 decide
// potability, TDS above 1000 is reported but tolerated.
func assessQuality(p entity.QualityParameters) (bool, []string) {
	potable := true
	var issues []string

	if p.Fluoride > 1.5 {
		potable = false
		issues = append(issues, "High fluoride")
	}
	if p.Nitrate > 45 {
		potable = false
		issues = append(issues, "High nitrate")
	}
	if p.TDS > 1000 {
		issues = append(issues, "High TDS")
	}

	return potable, issues
}

// RainfallStatus buckets the deviation from normal rainfall.
func RainfallStatus(deviationPct float64) string {
	switch {
	case math.Abs(deviationPct) < 20:
		return "Normal"
	case deviationPct > 0:
		return "Excess"
	default:
		return "Deficient"
	}
}

func mockRainfall(region entity.ReferenceRegion, q entity.Qualifiers, rng *rand.Rand) entity.Rainfall {
	normal := region.RainfallBaselineMM
	if normal <= 0 {
		normal = 750
	}

	total := round(normal*between(rng, 0.7, 1.3), 1)
	deviation := round((total-normal)/normal*100, 1)

	return entity.Rainfall{
		District:         region.Name,
		State:            region.State,
		Year:             q.Year,
		TotalRainfallMM:  total,
		NormalRainfallMM: normal,
		DeviationPercent: deviation,
		Status:           RainfallStatus(deviation),
		RechargeEstimate: &entity.RechargeEstimate{
			PotentialMM:          round(total*0.15, 1),
			PercentageOfRainfall: 15,
		},
		Source: "IMD-INGRES",
	}
}

func mockDrilling(region entity.ReferenceRegion, rng *rand.Rand) entity.DrillingRecommendation {
	p := profileFor(region)

	return entity.DrillingRecommendation{
		District:                  region.Name,
		State:                     region.State,
		Geology:                   region.Geology,
		SuccessProbabilityPercent: math.Round(between(rng, p.successMin, p.successMax)),
		RecommendedDepthRange: entity.DepthRange{
			MinimumM: p.depthMin,
			MaximumM: p.depthMax,
			OptimalM: math.Round(between(rng, p.depthMin+20, p.depthMax-20)),
		},
		DrillingSeason: "Post-monsoon (October-December)",
		Precautions:    drillingPrecautions,
		ExpectedYield: &entity.YieldRange{
			MinimumLPM: math.Round(between(rng, 500, 1000)),
			MaximumLPM: math.Round(between(rng, 1500, 3000)),
		},
		Source: "CGWB-INGRES",
	}
}

func titleBlock(region entity.ReferenceRegion, block string) string {
	if block == "" {
		return ""
	}
	for _, b := range region.Blocks {
		if strings.EqualFold(b, block) {
			return b
		}
	}
	return block
}
