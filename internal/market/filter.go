package market

import (
	"strings"
	"time"
)

// DateRange restricts records to a recency window relative to "now".
type DateRange string

const (
	DateAny   DateRange = ""
	DateToday DateRange = "today"
	DateWeek  DateRange = "week"
	DateMonth DateRange = "month"
)

// FilterState holds the active table filters. Empty fields mean "no
// constraint"; active constraints combine with logical AND.
type FilterState struct {
	County    string
	Market    string
	Commodity string
	Range     DateRange
	Search    string
}

// IsZero reports whether no constraint is active.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}

// Filter returns the records matching the filter state, preserving the
// original relative order. The input slice is never modified.
func Filter(records []Record, f FilterState, now time.Time) []Record {
	if f.IsZero() {
		return records
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.County != "" && r.County != f.County {
			continue
		}
		if f.Market != "" && r.Market != f.Market {
			continue
		}
		if f.Commodity != "" && r.Commodity != f.Commodity {
			continue
		}
		if !matchRange(r.Date, f.Range, now) {
			continue
		}
		if search != "" && !matchSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchSearch reports whether any descriptive field contains the lowercased
// search term.
func matchSearch(r Record, term string) bool {
	return strings.Contains(strings.ToLower(r.County), term) ||
		strings.Contains(strings.ToLower(r.Market), term) ||
		strings.Contains(strings.ToLower(r.Commodity), term) ||
		strings.Contains(strings.ToLower(r.Classification), term)
}

func matchRange(date time.Time, dr DateRange, now time.Time) bool {
	switch dr {
	case DateToday:
		return date.Year() == now.Year() && date.YearDay() == now.YearDay()
	case DateWeek:
		return !date.Before(now.AddDate(0, 0, -7))
	case DateMonth:
		return !date.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}
