// Package predict implements the single-shot price prediction query behind
// the Predict form: one request, one rendered outcome.
package predict

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"agridash/internal/api"
)

// PredictionSource provides cached price forecasts. Satisfied by
// *api.Client.
type PredictionSource interface {
	Latest(ctx context.Context, commodity, county, market, date string) (*api.LatestResponse, error)
}

// Result is a successful prediction: the first forecast entry for the
// requested date plus the market metadata that frames it.
type Result struct {
	Wholesale      decimal.Decimal
	Retail         decimal.Decimal
	Date           string
	Market         string
	County         string
	Classification string
	Currency       string
}

// Outcome is the rendered result of one form submission. Exactly one branch
// is taken: a Result, a domain-level NoPredictions message, or Err for a
// transport failure.
type Outcome struct {
	Result        *Result
	NoPredictions bool
	Message       string
	Err           error
}

// Submit issues one prediction query. Domain-level failures (API status
// "error", null payload, or an empty forecast list) become a NoPredictions
// outcome rather than an error; only transport failures set Err.
func Submit(ctx context.Context, src PredictionSource, commodity, county, market, date string) Outcome {
	if commodity == "" || county == "" || market == "" {
		return Outcome{
			NoPredictions: true,
			Message:       "select a commodity, county, and market first",
		}
	}

	resp, err := src.Latest(ctx, commodity, county, market, date)
	if err != nil {
		return Outcome{Err: fmt.Errorf("fetching prediction: %w", err)}
	}

	if resp.Status == "error" || resp.Data == nil {
		return Outcome{NoPredictions: true, Message: resp.Message}
	}
	if len(resp.Data.PredictedPrices) == 0 {
		return Outcome{
			NoPredictions: true,
			Message:       fmt.Sprintf("no predictions found for %s in %s", commodity, market),
		}
	}

	first := resp.Data.PredictedPrices[0]
	return Outcome{Result: &Result{
		Wholesale:      first.Wholesale,
		Retail:         first.Retail,
		Date:           first.Date,
		Market:         resp.Data.Market,
		County:         resp.Data.County,
		Classification: resp.Data.Classification,
		Currency:       resp.Data.Currency,
	}}
}
