package config

import (
	"fmt"
	"os"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"gopkg.in/yaml.v3"
)

// regionsFile represents the structure of regions.yaml
type regionsFile struct {
	Regions []entity.ReferenceRegion `yaml:"regions"`
}

var defaultRegions = []entity.ReferenceRegion{
	{
		Name:               "Nalanda",
		State:              "Bihar",
		Geology:            "Alluvial",
		Blocks:             []string{"Hilsa", "Nalanda", "Asthawan", "Biharsharif", "Rajgir"},
		RainfallBaselineMM: 1050,
	},
	{
		Name:               "Jalgaon",
		State:              "Maharashtra",
		Geology:            "Deccan Trap",
		Blocks:             []string{"Jalgaon", "Bhusawal", "Chopda", "Pachora", "Muktainagar"},
		RainfallBaselineMM: 750,
	},
	{
		Name:               "Anantapur",
		State:              "Andhra Pradesh",
		Geology:            "Hard Rock",
		Blocks:             []string{"Anantapur", "Kalyanadurg", "Hindupur", "Penukonda", "Tadipatri"},
		RainfallBaselineMM: 580,
	},
}

// DefaultRegions returns a copy of the built-in reference regions.
func DefaultRegions() []entity.ReferenceRegion {
	out := make([]entity.ReferenceRegion, len(defaultRegions))
	copy(out, defaultRegions)
	return out
}

// LoadRegions reads reference regions from a YAML file, falling back to
// the built-in set when the file does not exist.
func LoadRegions(path string) ([]entity.ReferenceRegion, error) {
	if path == "" {
		return DefaultRegions(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Warning: regions file not found at %s, using default regions\n", path)
		return DefaultRegions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("regions file is empty: %s", path)
	}

	var parsed regionsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse regions YAML: %w", err)
	}

	if len(parsed.Regions) == 0 {
		return nil, fmt.Errorf("regions file contains no regions: %s", path)
	}

	for i, r := range parsed.Regions {
		if r.Name == "" || r.State == "" {
			return nil, fmt.Errorf("region #%d: %w: name and state", i+1, entity.ErrMissingField)
		}
		if r.RainfallBaselineMM < 0 {
			return nil, fmt.Errorf("region %s: %w: negative rainfall baseline", r.Name, entity.ErrInvalidParameter)
		}
	}

	return parsed.Regions, nil
}
