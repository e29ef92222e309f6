// Package api implements the client for the remote market prediction API.
// The API is a plain JSON-over-HTTP service with two read endpoints:
// /history for observed prices and /latest for cached price forecasts.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError is a domain-level error reported by the API itself (status
// "error" in the response envelope), as opposed to a transport failure.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "api: " + e.Message
}

// Client talks to the prediction API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// History fetches up to days rows of observed prices for a commodity in a
// market, newest first. A domain-level error ("no data found") is returned
// as *APIError.
func (c *Client) History(ctx context.Context, county, market, commodity string, days int) ([]HistoryEntry, error) {
	q := url.Values{}
	q.Set("county", county)
	q.Set("market", market)
	q.Set("commodity", commodity)
	q.Set("days", strconv.Itoa(days))

	var resp historyResponse
	if err := c.get(ctx, "/history", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, &APIError{Message: resp.Message}
	}
	return resp.Data, nil
}

// Latest fetches the cached price forecasts for a (commodity, county,
// market) triple. When date is non-empty the forecast is restricted to that
// calendar date. The response envelope is returned as-is so callers can
// implement their own policy for status "error" and empty forecasts.
func (c *Client) Latest(ctx context.Context, commodity, county, market, date string) (*LatestResponse, error) {
	q := url.Values{}
	q.Set("commodity", commodity)
	q.Set("county", county)
	q.Set("market", market)
	if date != "" {
		q.Set("date", date)
	}

	var resp LatestResponse
	if err := c.get(ctx, "/latest", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	// The API encodes domain errors in the envelope but may also use 404
	// for them; decode any JSON body before judging the status code.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
		}
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}

	c.log.Debug("api request",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
