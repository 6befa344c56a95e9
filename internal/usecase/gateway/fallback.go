package gateway

import (
	"encoding/json"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

const (
	fallbackSource = "jalBuddy Fallback Data"
	fallbackNote   = "Live data temporarily unavailable"

	defaultRainfallMM = 750
)

// fallbackPayload builds the static per-type payload served when the
// upstream cannot be reached. It carries no timestamps, so equal inputs
// always produce equal bytes.
func fallbackPayload(dataType entity.DataType, region entity.ReferenceRegion, q entity.Qualifiers, regions *entity.RegionRegistry) json.RawMessage {
	var payload any

	switch dataType {
	case entity.DataTypeGroundwaterLevel:
		payload = entity.GroundwaterLevel{
			District:       region.Name,
			State:          region.State,
			Block:          blockName(region, q.Block),
			WaterLevelMBGL: 12.5,
			Season:         q.Season,
			Status:         "Moderate",
			GECCategory:    "Semi-Critical",
			Trend:          "stable",
			Source:         fallbackSource,
			Note:           fallbackNote,
		}
	case entity.DataTypeWaterQuality:
		payload = entity.WaterQuality{
			District: region.Name,
			State:    region.State,
			Parameters: entity.QualityParameters{
				TDS:      650,
				Fluoride: 0.8,
				Nitrate:  25,
			},
			Potable:        true,
			Recommendation: "Generally safe for consumption",
			Source:         fallbackSource,
			Note:           fallbackNote,
		}
	case entity.DataTypeRainfall:
		normal := region.RainfallBaselineMM
		if normal <= 0 {
			normal = defaultRainfallMM
		}
		payload = entity.Rainfall{
			District:         region.Name,
			State:            region.State,
			Year:             q.Year,
			TotalRainfallMM:  normal,
			NormalRainfallMM: normal,
			Status:           "Normal",
			Source:           fallbackSource,
			Note:             fallbackNote,
		}
	case entity.DataTypeDrilling:
		payload = entity.DrillingRecommendation{
			District:                  region.Name,
			State:                     region.State,
			Geology:                   region.Geology,
			SuccessProbabilityPercent: 65,
			RecommendedDepthRange:     entity.DepthRange{MinimumM: 100, MaximumM: 200},
			Source:                    fallbackSource,
			Note:                      fallbackNote,
		}
	case entity.DataTypeDistricts:
		payload = regions.Districts()
	default:
		return json.RawMessage(`{}`)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

func blockName(region entity.ReferenceRegion, block string) string {
	for _, b := range region.Blocks {
		if strings.EqualFold(b, block) {
			return b
		}
	}
	return block
}
