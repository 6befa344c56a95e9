package synthesizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

const offlineLabel = " (offline estimate)"

// BuildContext fuses the top n knowledge chunks with a summary of the live facets.
// Facets that are missing entirely are left out.
func BuildContext(chunks []entity.ScoredChunk, live *entity.LiveData, n int) string {
	var parts []string

	if n > len(chunks) {
		n = len(chunks)
	}
	if n > 0 {
		var b strings.Builder
		b.WriteString("Relevant Guidelines:")
		for _, c := range chunks[:n] {
			b.WriteString("\n- ")
			b.WriteString(c.Chunk.Content)
		}
		parts = append(parts, b.String())
	}

	if lines := liveLines(live); len(lines) > 0 {
		parts = append(parts, "Current Data:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n\n")
}

func liveLines(live *entity.LiveData) []string {
	var lines []string

	for _, dt := range entity.Facets() {
		f, ok := live.Facet(dt)
		if !ok || f.Result == nil || len(f.Result.Payload) == 0 {
			continue
		}

		line, err := describeFacet(dt, f.Result.Payload)
		if err != nil || line == "" {
			continue
		}

		if f.Result.Source == entity.SourceFallback {
			line += offlineLabel
		}
		lines = append(lines, "- "+line)
	}

	return lines
}

func describeFacet(dt entity.DataType, payload json.RawMessage) (string, error) {
	switch dt {
	case entity.DataTypeGroundwaterLevel:
		var v entity.GroundwaterLevel
		if err := json.Unmarshal(payload, &v); err != nil {
			return "", err
		}
		return fmt.Sprintf("Water Level: %.1fm below ground (%s, %s)", v.WaterLevelMBGL, v.Status, v.GECCategory), nil

	case entity.DataTypeWaterQuality:
		var v entity.WaterQuality
		if err := json.Unmarshal(payload, &v); err != nil {
			return "", err
		}
		potable := "not potable"
		if v.Potable {
			potable = "potable"
		}
		line := fmt.Sprintf("Water Quality: TDS %.0f mg/L, Fluoride %.2f mg/L, Nitrate %.0f mg/L (%s)",
			v.Parameters.TDS, v.Parameters.Fluoride, v.Parameters.Nitrate, potable)
		if len(v.Issues) > 0 {
			line += "; issues: " + strings.Join(v.Issues, ", ")
		}
		return line, nil

	case entity.DataTypeRainfall:
		var v entity.Rainfall
		if err := json.Unmarshal(payload, &v); err != nil {
			return "", err
		}
		if v.NormalRainfallMM <= 0 {
			return fmt.Sprintf("Rainfall: %.0f mm (%s)", v.TotalRainfallMM, v.Status), nil
		}
		return fmt.Sprintf("Rainfall: %.0f mm, %+.1f%% from normal (%s)", v.TotalRainfallMM, v.DeviationPercent, v.Status), nil

	case entity.DataTypeDrilling:
		var v entity.DrillingRecommendation
		if err := json.Unmarshal(payload, &v); err != nil {
			return "", err
		}
		return fmt.Sprintf("Drilling: %.0f%% success probability at %.0f-%.0f m",
			v.SuccessProbabilityPercent, v.RecommendedDepthRange.MinimumM, v.RecommendedDepthRange.MaximumM), nil
	}

	return "", nil
}

// liveHighlight is the one-line data note appended to template answers.
func liveHighlight(live *entity.LiveData, lang entity.Language) string {
	f, ok := live.Facet(entity.DataTypeGroundwaterLevel)
	if !ok || f.Result == nil {
		return ""
	}

	var v entity.GroundwaterLevel
	if err := json.Unmarshal(f.Result.Payload, &v); err != nil || v.WaterLevelMBGL == 0 {
		return ""
	}

	if lang == entity.LanguageHindi {
		line := fmt.Sprintf("वर्तमान जल स्तर: %.1f मीटर (भूमि से नीचे), श्रेणी: %s", v.WaterLevelMBGL, v.GECCategory)
		if f.Result.Source == entity.SourceFallback {
			line += " (अनुमानित)"
		}
		return line
	}

	line := fmt.Sprintf("Current water level: %.1f m below ground, category: %s", v.WaterLevelMBGL, v.GECCategory)
	if f.Result.Source == entity.SourceFallback {
		line += offlineLabel
	}
	return line
}
