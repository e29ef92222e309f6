package market

import (
	"sort"
	"strings"
)

// Column identifies a sortable table column.
type Column string

const (
	ColCounty         Column = "county"
	ColMarket         Column = "market"
	ColCommodity      Column = "commodity"
	ColClassification Column = "classification"
	ColWholesale      Column = "wholesale"
	ColRetail         Column = "retail"
	ColDate           Column = "date"
)

// SortState holds the active sort column and direction.
type SortState struct {
	Column Column
	Desc   bool
}

// Toggle flips the direction when column is already active, and otherwise
// switches to the new column ascending.
func (s *SortState) Toggle(column Column) {
	if s.Column == column {
		s.Desc = !s.Desc
		return
	}
	s.Column = column
	s.Desc = false
}

// Sort orders records by the sort state, in place. The sort is stable:
// records with equal keys keep their relative order. A zero state is a
// no-op.
func Sort(records []Record, s SortState) {
	if s.Column == "" {
		return
	}

	less := lessFunc(s.Column)
	sort.SliceStable(records, func(i, j int) bool {
		if s.Desc {
			i, j = j, i
		}
		return less(records[i], records[j])
	})
}

func lessFunc(column Column) func(a, b Record) bool {
	switch column {
	case ColWholesale:
		// Prices compare as floats; unparseable values decoded to the zero
		// decimal sort first.
		return func(a, b Record) bool {
			return a.Wholesale.InexactFloat64() < b.Wholesale.InexactFloat64()
		}
	case ColRetail:
		return func(a, b Record) bool {
			return a.Retail.InexactFloat64() < b.Retail.InexactFloat64()
		}
	case ColDate:
		return func(a, b Record) bool {
			return a.Date.Before(b.Date)
		}
	case ColMarket:
		return func(a, b Record) bool { return lessFold(a.Market, b.Market) }
	case ColCommodity:
		return func(a, b Record) bool { return lessFold(a.Commodity, b.Commodity) }
	case ColClassification:
		return func(a, b Record) bool { return lessFold(a.Classification, b.Classification) }
	default:
		return func(a, b Record) bool { return lessFold(a.County, b.County) }
	}
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
