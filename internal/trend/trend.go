// Package trend builds historical price series for the analytics chart from
// the /history endpoint.
package trend

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"agridash/internal/api"
)

// PriceType selects which of the two quoted prices a series tracks.
type PriceType string

const (
	Wholesale PriceType = "wholesale"
	Retail    PriceType = "retail"
)

// Series is one charted price series: parallel label and value sequences,
// oldest first. Rebuilt per request and owned by whoever requested it.
type Series struct {
	County    string
	Market    string
	Commodity string
	PriceType PriceType
	Labels    []string
	Values    []decimal.Decimal
}

// HistorySource provides observed price history. Satisfied by *api.Client.
type HistorySource interface {
	History(ctx context.Context, county, market, commodity string, days int) ([]api.HistoryEntry, error)
}

// Fetch retrieves a price series for the chart. All five selection inputs
// are required; a missing one is an input error, not a request.
func Fetch(ctx context.Context, src HistorySource, county, market, commodity string, days int, pt PriceType) (*Series, error) {
	if county == "" || market == "" || commodity == "" || days <= 0 || (pt != Wholesale && pt != Retail) {
		return nil, fmt.Errorf("trend: county, market, commodity, days and price type are all required")
	}

	rows, err := src.History(ctx, county, market, commodity, days)
	if err != nil {
		return nil, err
	}

	// /history returns newest first; the chart reads left to right.
	s := &Series{
		County:    county,
		Market:    market,
		Commodity: commodity,
		PriceType: pt,
		Labels:    make([]string, 0, len(rows)),
		Values:    make([]decimal.Decimal, 0, len(rows)),
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		s.Labels = append(s.Labels, row.Date)
		if pt == Retail {
			s.Values = append(s.Values, row.RetailUnitPrice)
		} else {
			s.Values = append(s.Values, row.WholesaleUnitPrice)
		}
	}
	return s, nil
}

// Title renders the chart title for the series.
func (s *Series) Title() string {
	return fmt.Sprintf("%s prices, %s (%s, %s)", s.Commodity, s.PriceType, s.Market, s.County)
}

// Floats returns the series values as float64 for chart rendering.
func (s *Series) Floats() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// Times parses the series labels as calendar dates. Labels that fail to
// parse fall back to day offsets from the first parseable date so a chart
// can still be drawn.
func (s *Series) Times() []time.Time {
	out := make([]time.Time, len(s.Labels))
	var base time.Time
	for i, label := range s.Labels {
		t, err := time.Parse("2006-01-02", label)
		if err != nil {
			t = base.AddDate(0, 0, i)
		} else if base.IsZero() {
			base = t.AddDate(0, 0, -i)
		}
		out[i] = t
	}
	return out
}
