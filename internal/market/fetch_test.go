package market

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"agridash/internal/api"
	"agridash/internal/refdata"
)

// stubSource serves canned /latest responses keyed by commodity.
type stubSource struct {
	mu        sync.Mutex
	responses map[string]*api.LatestResponse
	errs      map[string]error
	calls     int
}

func (s *stubSource) Latest(_ context.Context, commodity, county, market, _ string) (*api.LatestResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err, ok := s.errs[commodity]; ok {
		return nil, err
	}
	if resp, ok := s.responses[commodity]; ok {
		return resp, nil
	}
	return &api.LatestResponse{
		Status:  "error",
		Message: fmt.Sprintf("No cached predictions for %s in %s.", commodity, market),
	}, nil
}

func success(commodity, classification string, prices ...api.PredictedPrice) *api.LatestResponse {
	return &api.LatestResponse{
		Status: "success",
		Data: &api.LatestData{
			Commodity:       commodity,
			Classification:  classification,
			Currency:        "KES",
			PredictedPrices: prices,
		},
	}
}

func pp(day string, wholesale, retail int64) api.PredictedPrice {
	return api.PredictedPrice{
		Date:      day,
		Wholesale: decimal.NewFromInt(wholesale),
		Retail:    decimal.NewFromInt(retail),
	}
}

func fetchMap(t *testing.T) *refdata.Map {
	t.Helper()
	m, err := refdata.ParseMap([]byte(`{
		"county_markets": {"Nairobi": ["Wakulima"], "Kisumu": ["Kibuye"]},
		"commodities": {
			"Nairobi": {"Wakulima": ["Maize", "Beans"]},
			"Kisumu": {"Kibuye": ["Fish"]}
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func fixedNow() time.Time { return date("2024-06-01") }

func TestFetchSnapshotPartialFailure(t *testing.T) {
	src := &stubSource{
		responses: map[string]*api.LatestResponse{
			"Fish":  success("Fish", "Fisheries", pp("2024-06-02", 300, 340)),
			"Maize": success("Maize", "Cereals", pp("2024-06-01", 50, 60)),
		},
		errs: map[string]error{
			"Beans": errors.New("connection reset"),
		},
	}

	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))

	records := FetchSnapshot(context.Background(), src, fetchMap(t),
		FetchOptions{Workers: 3, Now: fixedNow}, log)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (one triple failed)", len(records))
	}
	if !bytes.Contains(logBuf.Bytes(), []byte("latest price fetch failed")) {
		t.Error("failed fetch not logged as a warning")
	}
	// Triple order (counties sorted): Kisumu/Fish before Nairobi/Maize,
	// whatever order the workers finished in.
	if records[0].Commodity != "Fish" || records[1].Commodity != "Maize" {
		t.Errorf("record order: %s, %s", records[0].Commodity, records[1].Commodity)
	}
	if src.calls != 3 {
		t.Errorf("made %d requests, want 3", src.calls)
	}
}

func TestFetchSnapshotScenario(t *testing.T) {
	m, err := refdata.ParseMap([]byte(`{
		"county_markets": {"Nairobi": ["Wakulima"]},
		"commodities": {"Nairobi": {"Wakulima": ["Maize"]}}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	src := &stubSource{
		responses: map[string]*api.LatestResponse{
			"Maize": success("Maize", "Cereals", pp("2024-01-01", 50, 60)),
		},
	}

	records := FetchSnapshot(context.Background(), src, m,
		FetchOptions{Now: fixedNow}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.County != "Nairobi" || r.Market != "Wakulima" || r.Commodity != "Maize" {
		t.Errorf("identity fields: %+v", r)
	}
	if FormatPrice(r.Wholesale) != "50.00" || FormatPrice(r.Retail) != "60.00" {
		t.Errorf("prices: %s / %s", FormatPrice(r.Wholesale), FormatPrice(r.Retail))
	}
	if r.DateString() != "2024-01-01" {
		t.Errorf("date: %s", r.DateString())
	}
}

func TestCurrentEntryPolicy(t *testing.T) {
	prices := []api.PredictedPrice{
		pp("2024-06-03", 52, 62),
		pp("2024-06-01", 50, 60),
		pp("2024-06-02", 51, 61),
	}

	// Exact match for today wins.
	got := currentEntry(prices, "2024-06-02")
	if got.Date != "2024-06-02" {
		t.Errorf("today match: got %s", got.Date)
	}

	// No match for today: earliest entry, not the nearest future one.
	got = currentEntry(prices, "2024-06-05")
	if got.Date != "2024-06-01" {
		t.Errorf("fallback: got %s, want earliest 2024-06-01", got.Date)
	}
}

func TestFetchSnapshotEmptyPredictions(t *testing.T) {
	src := &stubSource{
		responses: map[string]*api.LatestResponse{
			"Maize": success("Maize", "Cereals"), // no entries
			"Beans": {Status: "error", Message: "nothing cached"},
			"Fish":  success("Fish", "Fisheries", pp("2024-06-01", 300, 340)),
		},
	}

	records := FetchSnapshot(context.Background(), src, fetchMap(t),
		FetchOptions{Now: fixedNow}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if len(records) != 1 || records[0].Commodity != "Fish" {
		t.Fatalf("records = %+v, want only Fish", records)
	}
}
