// Package refdata loads the county/market/commodity reference data that
// drives the cascading selectors, the summary counts, and the market
// snapshot fan-out. The data is loaded once per process and treated as
// read-only afterwards.
package refdata

import (
	"encoding/json"
	"os"
	"sort"
)

// Map holds the two-level reference hierarchy: which markets exist in each
// county, and which commodities are traded in each (county, market) pair.
type Map struct {
	CountyMarkets map[string][]string            `json:"county_markets"`
	Commodities   map[string]map[string][]string `json:"commodities"`
}

// Triple identifies one (county, market, commodity) combination.
type Triple struct {
	County    string
	Market    string
	Commodity string
}

// ParseMap decodes reference data from its JSON representation.
func ParseMap(data []byte) (*Map, error) {
	m := &Map{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile loads reference data from a JSON file on disk.
func ReadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMap(data)
}

// Counties returns all counties, sorted.
func (m *Map) Counties() []string {
	counties := make([]string, 0, len(m.CountyMarkets))
	for c := range m.CountyMarkets {
		counties = append(counties, c)
	}
	sort.Strings(counties)
	return counties
}

// Markets returns the markets of a county in their listed order, or nil for
// an unknown county.
func (m *Map) Markets(county string) []string {
	return m.CountyMarkets[county]
}

// CommoditiesFor returns the commodities traded in a (county, market) pair
// in their listed order, or nil when the pair is unknown.
func (m *Map) CommoditiesFor(county, market string) []string {
	byMarket, ok := m.Commodities[county]
	if !ok {
		return nil
	}
	return byMarket[market]
}

// AllCommodities returns the distinct commodities across every county and
// market, sorted.
func (m *Map) AllCommodities() []string {
	seen := make(map[string]struct{})
	for _, byMarket := range m.Commodities {
		for _, commodities := range byMarket {
			for _, c := range commodities {
				seen[c] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Triples enumerates every (county, market, commodity) combination in a
// stable order: counties sorted, then markets and commodities as listed.
// The market snapshot fan-out derives its record order from this.
func (m *Map) Triples() []Triple {
	var out []Triple
	for _, county := range m.Counties() {
		for _, market := range m.CountyMarkets[county] {
			for _, commodity := range m.CommoditiesFor(county, market) {
				out = append(out, Triple{County: county, Market: market, Commodity: commodity})
			}
		}
	}
	return out
}
