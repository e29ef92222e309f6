package market

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"agridash/internal/api"
	"agridash/internal/refdata"
	"agridash/internal/util"
)

// PriceSource provides the latest price forecast for one triple. Satisfied
// by *api.Client.
type PriceSource interface {
	Latest(ctx context.Context, commodity, county, market, date string) (*api.LatestResponse, error)
}

// FetchOptions tunes the snapshot fan-out.
type FetchOptions struct {
	Workers int
	Limiter *util.RateLimiter
	Now     func() time.Time // test hook; defaults to time.Now
}

// FetchSnapshot fetches the current price for every (county, market,
// commodity) combination in the reference map. One request per triple, fanned
// out over a bounded worker pool; the call returns only when every request
// has settled. A failing request contributes no record and is logged, never
// fatal. The result order follows refdata.Triples regardless of completion
// order.
func FetchSnapshot(ctx context.Context, src PriceSource, ref *refdata.Map, opts FetchOptions, log *slog.Logger) []Record {
	triples := ref.Triples()
	if len(triples) == 0 {
		return nil
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	today := now().Format(dateLayout)

	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}
	if workers > len(triples) {
		workers = len(triples)
	}

	// Feed triple indices to workers; each result lands in its own slot so
	// completion order cannot reshuffle the record order.
	idxCh := make(chan int, len(triples))
	for i := range triples {
		idxCh <- i
	}
	close(idxCh)

	slots := make([]*Record, len(triples))

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
		empty  atomic.Int64
		start  = time.Now()
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				if ctx.Err() != nil {
					return
				}
				tr := triples[i]

				if opts.Limiter != nil {
					if err := opts.Limiter.Wait(ctx); err != nil {
						return
					}
				}

				resp, err := src.Latest(ctx, tr.Commodity, tr.County, tr.Market, "")
				if err != nil {
					failed.Add(1)
					log.Warn("latest price fetch failed",
						"county", tr.County,
						"market", tr.Market,
						"commodity", tr.Commodity,
						"error", err,
					)
					continue
				}
				if resp.Status != "success" || resp.Data == nil || len(resp.Data.PredictedPrices) == 0 {
					empty.Add(1)
					log.Warn("no predictions for triple",
						"county", tr.County,
						"market", tr.Market,
						"commodity", tr.Commodity,
						"message", resp.Message,
					)
					continue
				}

				entry := currentEntry(resp.Data.PredictedPrices, today)
				date, err := time.Parse(dateLayout, entry.Date)
				if err != nil {
					empty.Add(1)
					log.Warn("unparseable prediction date",
						"county", tr.County,
						"market", tr.Market,
						"commodity", tr.Commodity,
						"date", entry.Date,
					)
					continue
				}

				slots[i] = &Record{
					County:         tr.County,
					Market:         tr.Market,
					Commodity:      tr.Commodity,
					Classification: resp.Data.Classification,
					Wholesale:      entry.Wholesale,
					Retail:         entry.Retail,
					Date:           date,
					Currency:       resp.Data.Currency,
				}
			}
		}()
	}
	wg.Wait()

	records := make([]Record, 0, len(triples))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}

	log.Info("market snapshot fetched",
		"triples", len(triples),
		"records", len(records),
		"failed", failed.Load(),
		"empty", empty.Load(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return records
}

// currentEntry picks the "current" price from a forecast: the entry dated
// today when present, otherwise the earliest-dated entry. The earliest
// fallback (rather than nearest future date) matches the upstream
// dashboard's established behavior.
func currentEntry(prices []api.PredictedPrice, today string) api.PredictedPrice {
	for _, p := range prices {
		if p.Date == today {
			return p
		}
	}
	sorted := make([]api.PredictedPrice, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted[0]
}
