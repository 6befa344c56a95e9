package entity

import (
	"encoding/json"
	"strconv"
	"time"
)

// DataType identifies a kind of upstream hydrological data.
type DataType string

const (
	DataTypeGroundwaterLevel DataType = "groundwater_level"
	DataTypeWaterQuality     DataType = "water_quality"
	DataTypeRainfall         DataType = "rainfall"
	DataTypeDrilling         DataType = "drilling"
	DataTypeDistricts        DataType = "districts"
)

// Facets lists the per-region data types in presentation order.
func Facets() []DataType {
	return []DataType{
		DataTypeGroundwaterLevel,
		DataTypeWaterQuality,
		DataTypeRainfall,
		DataTypeDrilling,
	}
}

func (d DataType) IsFacet() bool {
	switch d {
	case DataTypeGroundwaterLevel, DataTypeWaterQuality, DataTypeRainfall, DataTypeDrilling:
		return true
	}
	return false
}

func (d DataType) IsValid() bool {
	return d.IsFacet() || d == DataTypeDistricts
}

// Source tells where a structured result came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

const DefaultSeason = "post_monsoon"

// Qualifiers narrow an upstream request.
type Qualifiers struct {
	Season string `json:"season,omitempty"`
	Year   int    `json:"year,omitempty"`
	Block  string `json:"block,omitempty"`
}

// Normalize case-folds the textual qualifiers.
func (q Qualifiers) Normalize() Qualifiers {
	return Qualifiers{
		Season: NormalizeName(q.Season),
		Year:   q.Year,
		Block:  NormalizeName(q.Block),
	}
}

// ForType keeps only the qualifiers that affect the given data type and fills defaults.
func (q Qualifiers) ForType(dataType DataType, now time.Time) Qualifiers {
	q = q.Normalize()

	switch dataType {
	case DataTypeGroundwaterLevel:
		if q.Season == "" {
			q.Season = DefaultSeason
		}
		return Qualifiers{Season: q.Season, Block: q.Block}
	case DataTypeRainfall:
		if q.Year == 0 {
			q.Year = now.Year()
		}
		return Qualifiers{Year: q.Year}
	default:
		return Qualifiers{}
	}
}

// Params renders the qualifiers as upstream query parameters.
func (q Qualifiers) Params() map[string]string {
	params := make(map[string]string, 3)
	if q.Season != "" {
		params["season"] = q.Season
	}
	if q.Block != "" {
		params["block"] = q.Block
	}
	if q.Year != 0 {
		params["year"] = strconv.Itoa(q.Year)
	}
	return params
}

// StructuredResult is a gateway answer for one data type and subject.
type StructuredResult struct {
	DataType  DataType        `json:"data_type"`
	Subject   string          `json:"subject,omitempty"`
	Source    Source          `json:"source"`
	Degraded  bool            `json:"degraded"`
	Payload   json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// UpstreamEnvelope is the response shape of the upstream data service.
type UpstreamEnvelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// FacetResult is the outcome of one facet fetch inside an aggregate.
type FacetResult struct {
	DataType  DataType          `json:"data_type"`
	Available bool              `json:"available"`
	Result    *StructuredResult `json:"result,omitempty"`
}

// LiveData aggregates the facets fetched for one district.
type LiveData struct {
	District string                    `json:"district"`
	Facets   map[DataType]*FacetResult `json:"facets"`
}

func (l *LiveData) Facet(dataType DataType) (*FacetResult, bool) {
	if l == nil || l.Facets == nil {
		return nil, false
	}
	f, ok := l.Facets[dataType]
	return f, ok && f != nil
}

// Available lists facets backed by live or cached upstream data.
func (l *LiveData) Available() []DataType {
	var out []DataType
	for _, dt := range Facets() {
		if f, ok := l.Facet(dt); ok && f.Available {
			out = append(out, dt)
		}
	}
	return out
}

// Unavailable lists facets that could not be served from upstream data.
func (l *LiveData) Unavailable() []DataType {
	var out []DataType
	for _, dt := range Facets() {
		if f, ok := l.Facet(dt); !ok || !f.Available {
			out = append(out, dt)
		}
	}
	return out
}

// Source summarizes the facet sources: fallback wins over cache, cache over live.
// Empty when nothing was fetched.
func (l *LiveData) Source() Source {
	if l == nil || len(l.Facets) == 0 {
		return ""
	}

	summary := SourceLive
	for _, dt := range Facets() {
		f, ok := l.Facet(dt)
		if !ok || f.Result == nil {
			return SourceFallback
		}
		switch f.Result.Source {
		case SourceFallback:
			return SourceFallback
		case SourceCache:
			summary = SourceCache
		}
	}
	return summary
}

// Degraded reports whether any facet came from a non-live source.
func (l *LiveData) Degraded() bool {
	s := l.Source()
	return s == SourceCache || s == SourceFallback
}

// GroundwaterLevel is the decoded water-level facet. The facet types mirror
// the `data` objects of the INGRES upstream.
type GroundwaterLevel struct {
	District        string  `json:"district"`
	State           string  `json:"state,omitempty"`
	Block           string  `json:"block,omitempty"`
	WaterLevelMBGL  float64 `json:"water_level_mbgl"`
	Season          string  `json:"season,omitempty"`
	Status          string  `json:"status"`
	GECCategory     string  `json:"gec_category"`
	Trend           string  `json:"trend,omitempty"`
	MeasurementDate string  `json:"measurement_date,omitempty"`
	Source          string  `json:"source,omitempty"`
	Note            string  `json:"note,omitempty"`
}

// QualityParameters are laboratory readings in mg/L (pH unitless).
type QualityParameters struct {
	TDS      float64 `json:"tds"`
	Fluoride float64 `json:"fluoride"`
	Nitrate  float64 `json:"nitrate"`
	Chloride float64 `json:"chloride,omitempty"`
	PH       float64 `json:"ph,omitempty"`
	Hardness float64 `json:"hardness,omitempty"`
}

// WaterQuality is the decoded water-quality facet.
type WaterQuality struct {
	District       string            `json:"district"`
	State          string            `json:"state,omitempty"`
	Parameters     QualityParameters `json:"parameters"`
	Potable        bool              `json:"potable"`
	Issues         []string          `json:"issues,omitempty"`
	Recommendation string            `json:"recommendation,omitempty"`
	SamplingDate   string            `json:"sampling_date,omitempty"`
	Source         string            `json:"source,omitempty"`
	Note           string            `json:"note,omitempty"`
}

type RechargeEstimate struct {
	PotentialMM          float64 `json:"potential_mm"`
	PercentageOfRainfall float64 `json:"percentage_of_rainfall"`
}

// Rainfall is the decoded rainfall facet.
type Rainfall struct {
	District         string            `json:"district"`
	State            string            `json:"state,omitempty"`
	Year             int               `json:"year,omitempty"`
	TotalRainfallMM  float64           `json:"total_rainfall_mm"`
	NormalRainfallMM float64           `json:"normal_rainfall_mm,omitempty"`
	DeviationPercent float64           `json:"deviation_percent"`
	Status           string            `json:"status"`
	RechargeEstimate *RechargeEstimate `json:"recharge_estimate,omitempty"`
	Source           string            `json:"source,omitempty"`
	Note             string            `json:"note,omitempty"`
}

type DepthRange struct {
	MinimumM float64 `json:"minimum_m"`
	MaximumM float64 `json:"maximum_m"`
	OptimalM float64 `json:"optimal_m,omitempty"`
}

// YieldRange is the expected borewell yield in litres per minute.
type YieldRange struct {
	MinimumLPM float64 `json:"minimum_lpm"`
	MaximumLPM float64 `json:"maximum_lpm"`
}

// DrillingRecommendation is the decoded drilling facet.
type DrillingRecommendation struct {
	District                  string      `json:"district"`
	State                     string      `json:"state,omitempty"`
	Geology                   string      `json:"geology,omitempty"`
	SuccessProbabilityPercent float64     `json:"success_probability_percent"`
	RecommendedDepthRange     DepthRange  `json:"recommended_depth_range"`
	DrillingSeason            string      `json:"drilling_season,omitempty"`
	Precautions               []string    `json:"precautions,omitempty"`
	ExpectedYield             *YieldRange `json:"expected_yield,omitempty"`
	Source                    string      `json:"source,omitempty"`
	Note                      string      `json:"note,omitempty"`
}

// DistrictInfo is one entry of the district listing.
type DistrictInfo struct {
	Name    string   `json:"name"`
	State   string   `json:"state"`
	Geology string   `json:"geology"`
	Blocks  []string `json:"blocks,omitempty"`
}
