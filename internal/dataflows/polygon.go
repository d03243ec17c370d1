package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bklieger-groq/voice-stockbot/config"
)

// PolygonClient handles Polygon.io API operations
type PolygonClient struct {
	client *resty.Client
	retry  *RetryConfig
}

// NewPolygonClient creates a new Polygon client
func NewPolygonClient(cfg *config.Config) *PolygonClient {
	client := resty.New()
	client.SetBaseURL("https://api.polygon.io")
	client.SetTimeout(30 * time.Second)
	client.SetQueryParam("apiKey", cfg.PolygonAPIKey)

	return &PolygonClient{
		client: client,
		retry:  DefaultRetryConfig(),
	}
}

func (pc *PolygonClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	return WithRetry(pc.retry, func() error {
		resp, err := pc.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)

		if err != nil {
			return fmt.Errorf("request %s failed: %w", path, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
		return nil
	})
}

// GetTickerDetails fetches reference data for a ticker
func (pc *PolygonClient) GetTickerDetails(ctx context.Context, ticker string) (*TickerDetails, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var result struct {
		Results *TickerDetails `json:"results"`
	}
	if err := pc.get(ctx, "/v3/reference/tickers/"+ticker, nil, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		return nil, fmt.Errorf("no ticker details for %s", ticker)
	}
	return result.Results, nil
}

// GetSnapshot fetches the delayed real-time snapshot for a ticker
func (pc *PolygonClient) GetSnapshot(ctx context.Context, ticker string) (*Snapshot, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var result struct {
		Ticker *Snapshot `json:"ticker"`
	}
	path := "/v2/snapshot/locale/us/markets/stocks/tickers/" + ticker
	if err := pc.get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	if result.Ticker == nil {
		return nil, fmt.Errorf("no snapshot for %s", ticker)
	}
	return result.Ticker, nil
}

// ListFinancials fetches all quarterly financial statement filings for a ticker
func (pc *PolygonClient) ListFinancials(ctx context.Context, ticker string) ([]StockFinancial, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var result struct {
		Results []StockFinancial `json:"results"`
	}
	params := map[string]string{
		"ticker":    ticker,
		"timeframe": "quarterly",
		"limit":     "100",
	}
	if err := pc.get(ctx, "/vX/reference/financials", params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// GetAggs fetches daily aggregate bars for a ticker across a date range
func (pc *PolygonClient) GetAggs(ctx context.Context, ticker string, from, to time.Time) ([]Agg, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var result struct {
		Results []Agg `json:"results"`
	}
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	params := map[string]string{
		"adjusted": "true",
		"sort":     "asc",
		"limit":    "50000",
	}
	if err := pc.get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}
