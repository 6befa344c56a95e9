package entity

import (
	"sort"
	"strings"
)

// ReferenceRegion describes a district known to the system.
type ReferenceRegion struct {
	Name               string   `yaml:"name" json:"name"`
	State              string   `yaml:"state" json:"state"`
	Geology            string   `yaml:"geology" json:"geology"`
	Blocks             []string `yaml:"blocks" json:"blocks"`
	RainfallBaselineMM float64  `yaml:"rainfall_baseline_mm" json:"rainfall_baseline_mm"`
}

// Key returns the normalized lookup key of the region.
func (r ReferenceRegion) Key() string {
	return NormalizeName(r.Name)
}

// RegionRegistry is an immutable set of reference regions.
type RegionRegistry struct {
	byKey map[string]ReferenceRegion
	order []string
}

func NewRegionRegistry(regions []ReferenceRegion) *RegionRegistry {
	reg := &RegionRegistry{
		byKey: make(map[string]ReferenceRegion, len(regions)),
	}

	for _, r := range regions {
		key := r.Key()
		if key == "" {
			continue
		}
		if _, exists := reg.byKey[key]; !exists {
			reg.order = append(reg.order, key)
		}
		r.Blocks = append([]string(nil), r.Blocks...)
		reg.byKey[key] = r
	}

	sort.Strings(reg.order)

	return reg
}

// Lookup finds a region by name, ignoring case and surrounding whitespace.
func (r *RegionRegistry) Lookup(name string) (ReferenceRegion, bool) {
	region, ok := r.byKey[NormalizeName(name)]
	return region, ok
}

// List returns regions ordered by name.
func (r *RegionRegistry) List() []ReferenceRegion {
	out := make([]ReferenceRegion, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

func (r *RegionRegistry) Len() int {
	return len(r.order)
}

// NormalizeName case-folds and trims an identifier used in cache keys and lookups.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Districts renders the registry as a district listing.
func (r *RegionRegistry) Districts() []DistrictInfo {
	list := r.List()
	out := make([]DistrictInfo, 0, len(list))
	for _, region := range list {
		out = append(out, DistrictInfo{
			Name:    region.Name,
			State:   region.State,
			Geology: region.Geology,
			Blocks:  region.Blocks,
		})
	}
	return out
}
