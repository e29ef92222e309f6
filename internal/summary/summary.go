// Package summary derives the dashboard's headline counts (counties,
// markets, commodities in scope) from the current selection and the
// reference data. Purely computational: no network access.
package summary

import "agridash/internal/refdata"

// Counts holds the number of counties, markets, and commodities in scope
// for a selection. Filtered is set whenever any selection narrows the
// scope, so the UI can flag the summary visually.
type Counts struct {
	Counties    int
	Markets     int
	Commodities int
	Filtered    bool
}

// Compute derives the counts for the given selection. An empty value at any
// stage means that stage is unselected.
func Compute(m *refdata.Map, county, market, commodity string) Counts {
	switch {
	case county == "":
		return Counts{
			Counties:    len(m.CountyMarkets),
			Markets:     totalMarkets(m),
			Commodities: len(m.AllCommodities()),
		}
	case market == "":
		return Counts{
			Counties:    1,
			Markets:     len(m.Markets(county)),
			Commodities: countyCommodities(m, county),
			Filtered:    true,
		}
	case commodity == "":
		return Counts{
			Counties:    1,
			Markets:     1,
			Commodities: len(m.CommoditiesFor(county, market)),
			Filtered:    true,
		}
	default:
		return Counts{Counties: 1, Markets: 1, Commodities: 1, Filtered: true}
	}
}

func totalMarkets(m *refdata.Map) int {
	total := 0
	for _, markets := range m.CountyMarkets {
		total += len(markets)
	}
	return total
}

func countyCommodities(m *refdata.Map, county string) int {
	seen := make(map[string]struct{})
	for _, commodities := range m.Commodities[county] {
		for _, c := range commodities {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}
