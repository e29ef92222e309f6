package api

import "github.com/shopspring/decimal"

// HistoryEntry is one observed market price row from GET /history.
type HistoryEntry struct {
	Date               string          `json:"Date"`
	Commodity          string          `json:"Commodity"`
	Classification     string          `json:"Classification"`
	Market             string          `json:"Market"`
	County             string          `json:"County"`
	WholesaleUnitPrice decimal.Decimal `json:"WholesaleUnitPrice"`
	RetailUnitPrice    decimal.Decimal `json:"RetailUnitPrice"`
}

// historyResponse is the envelope returned by GET /history.
type historyResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    []HistoryEntry `json:"data"`
}

// PredictedPrice is one dated price forecast from GET /latest.
type PredictedPrice struct {
	Date      string          `json:"Date"`
	Wholesale decimal.Decimal `json:"Wholesale"`
	Retail    decimal.Decimal `json:"Retail"`
}

// LatestData is the payload of a successful GET /latest response. The rows
// in PredictedPrices arrive sorted by date ascending.
type LatestData struct {
	Commodity       string           `json:"Commodity"`
	Classification  string           `json:"Classification"`
	Market          string           `json:"Market"`
	County          string           `json:"County"`
	Currency        string           `json:"Currency"`
	PredictedPrices []PredictedPrice `json:"Predicted_prices"`
}

// LatestResponse is the envelope returned by GET /latest. On a domain-level
// error Status is "error" and Data is nil; callers branch on that rather
// than on a transport error.
type LatestResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    *LatestData `json:"data"`
}
