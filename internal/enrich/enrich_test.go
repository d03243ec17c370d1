package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bklieger-groq/voice-stockbot/internal/cache"
	"github.com/bklieger-groq/voice-stockbot/internal/dataflows"
)

type fakeProvider struct {
	details      *dataflows.TickerDetails
	detailsErr   error
	detailsCalls int
	snapshot     *dataflows.Snapshot
	snapshotErr  error
	financials   []dataflows.StockFinancial
	finErr       error
	aggs         []dataflows.Agg
	aggsErr      error
}

func (f *fakeProvider) GetTickerDetails(ctx context.Context, ticker string) (*dataflows.TickerDetails, error) {
	f.detailsCalls++
	return f.details, f.detailsErr
}

func (f *fakeProvider) GetSnapshot(ctx context.Context, ticker string) (*dataflows.Snapshot, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeProvider) ListFinancials(ctx context.Context, ticker string) ([]dataflows.StockFinancial, error) {
	return f.financials, f.finErr
}

func (f *fakeProvider) GetAggs(ctx context.Context, ticker string, from, to time.Time) ([]dataflows.Agg, error) {
	return f.aggs, f.aggsErr
}

func strPtr(s string) *string { return &s }

func numPtr(v float64) *float64 { return &v }

func appleDetails() *dataflows.TickerDetails {
	return &dataflows.TickerDetails{
		Ticker:      "AAPL",
		Name:        strPtr("Apple Inc."),
		Description: strPtr("Apple is among the largest companies in the world."),
		Address: &dataflows.Address{
			Address1:   strPtr("ONE APPLE PARK WAY"),
			City:       strPtr("CUPERTINO"),
			State:      strPtr("CA"),
			PostalCode: strPtr("95014"),
		},
		CurrencyName:                strPtr("usd"),
		HomepageURL:                 strPtr("https://www.apple.com"),
		ListDate:                    strPtr("1980-12-12"),
		Locale:                      strPtr("us"),
		MarketCap:                   numPtr(3358411413656),
		PrimaryExchange:             strPtr("XNAS"),
		ShareClassSharesOutstanding: numPtr(15204140000),
		SICDescription:              strPtr("ELECTRONIC COMPUTERS"),
		TotalEmployees:              numPtr(161000),
		WeightedSharesOutstanding:   numPtr(15204137000),
	}
}

func appleSnapshot() *dataflows.Snapshot {
	return &dataflows.Snapshot{
		Ticker:              "AAPL",
		Day:                 &dataflows.DayBar{Close: 220.984},
		TodaysChange:        -1.45,
		TodaysChangePercent: -0.65,
	}
}

// quarterlyFilings builds n quarterly filings, newest first, with revenues,
// EPS, assets, and net cash flow on each.
func quarterlyFilings(n int) []dataflows.StockFinancial {
	dates := []string{"2024-06-30", "2024-03-31", "2023-12-31", "2023-09-30", "2023-06-30", "2023-03-31"}
	filings := make([]dataflows.StockFinancial, 0, n)
	for i := 0; i < n; i++ {
		filings = append(filings, dataflows.StockFinancial{
			EndDate: dates[i],
			Financials: dataflows.Financials{
				BalanceSheet: dataflows.StatementMap{
					"assets": {Value: float64(352000 + i)},
				},
				IncomeStatement: dataflows.StatementMap{
					"revenues":                 {Value: float64(85000 + i)},
					"basic_earnings_per_share": {Value: 1.5},
				},
				CashFlowStatement: dataflows.StatementMap{
					"net_cash_flow": {Value: float64(1200 + i)},
				},
			},
		})
	}
	return filings
}

func newTestClient(provider *fakeProvider) *Client {
	return NewClient(provider, cache.NewMemoryStore())
}

func TestFetchFundamentalsText(t *testing.T) {
	provider := &fakeProvider{
		details:    appleDetails(),
		snapshot:   appleSnapshot(),
		financials: quarterlyFilings(4),
		aggs:       []dataflows.Agg{{Close: 200}, {Close: 220}},
	}
	client := newTestClient(provider)

	text, jsonStr := client.FetchFundamentals(context.Background(), "AAPL")

	for _, want := range []string{
		"Company: Apple Inc. (AAPL)",
		"Address: ONE APPLE PARK WAY, CUPERTINO, CA 95014",
		"Market Cap: $3,358,411,413,656.00",
		"Total Employees: 161,000",
		"Live Price: about $221.000",
		"Today's Change: $-1.45 (-0.65%)",
		"Change in last 1 week",
		"Change in last 2 years",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text rendering missing %q:\n%s", want, text)
		}
	}

	// 10% change over each window
	if !strings.Contains(text, "): 10%") {
		t.Errorf("expected 10%% change lines, got:\n%s", text)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		t.Fatalf("json rendering is not valid JSON: %v", err)
	}
	if decoded["market_cap"] != float64(3358411413656) {
		t.Errorf("expected raw numeric market cap in JSON, got %v", decoded["market_cap"])
	}
}

func TestFetchFundamentalsSentinels(t *testing.T) {
	provider := &fakeProvider{
		details:  &dataflows.TickerDetails{Ticker: "NEWCO"},
		snapshot: &dataflows.Snapshot{Ticker: "NEWCO"},
	}
	client := newTestClient(provider)

	text, jsonStr := client.FetchFundamentals(context.Background(), "NEWCO")

	for _, want := range []string{
		"Company: not available (NEWCO)",
		"Address: not available, not available, not available not available",
		"Market Cap: not available",
		"Total Employees: not available",
		"Live Price: about not available",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected sentinel rendering %q:\n%s", want, text)
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		t.Fatalf("json rendering is not valid JSON: %v", err)
	}
	for _, field := range []string{"name", "market_cap", "total_employees", "live_price"} {
		if decoded[field] != "not available" {
			t.Errorf("expected sentinel for %s, got %v", field, decoded[field])
		}
	}
}

func TestTrailingTwelveMonths(t *testing.T) {
	provider := &fakeProvider{
		details:    appleDetails(),
		snapshot:   appleSnapshot(),
		financials: quarterlyFilings(4),
	}
	client := newTestClient(provider)

	text, _ := client.FetchFundamentals(context.Background(), "AAPL")

	if !strings.Contains(text, "Annual Revenue (Trailing 12 mo): $340,006.00 as of 2024-06-30") {
		t.Errorf("expected TTM revenue line, got:\n%s", text)
	}
	if !strings.Contains(text, "Annual EPS (Trailing 12 mo): $6.00 as of 2024-06-30") {
		t.Errorf("expected TTM EPS line, got:\n%s", text)
	}
}

func TestTrailingTwelveMonthsOmittedUnderFourQuarters(t *testing.T) {
	provider := &fakeProvider{
		details:    appleDetails(),
		snapshot:   appleSnapshot(),
		financials: quarterlyFilings(3),
	}
	client := newTestClient(provider)

	text, _ := client.FetchFundamentals(context.Background(), "AAPL")

	if strings.Contains(text, "Trailing 12 mo") {
		t.Errorf("TTM lines must be omitted with fewer than four quarters:\n%s", text)
	}
}

func TestFetchFundamentalsCachePair(t *testing.T) {
	provider := &fakeProvider{
		details:  appleDetails(),
		snapshot: appleSnapshot(),
	}
	client := newTestClient(provider)
	ctx := context.Background()

	text1, json1 := client.FetchFundamentals(ctx, "AAPL")
	text2, json2 := client.FetchFundamentals(ctx, "AAPL")

	if provider.detailsCalls != 1 {
		t.Fatalf("expected exactly one provider call within TTL, got %d", provider.detailsCalls)
	}
	if text1 != text2 || json1 != json2 {
		t.Fatal("cached pair must round-trip identically")
	}
}

func TestFetchFundamentalsPartialCacheIsMiss(t *testing.T) {
	provider := &fakeProvider{
		details:  appleDetails(),
		snapshot: appleSnapshot(),
	}
	store := cache.NewMemoryStore()
	client := NewClient(provider, store)
	ctx := context.Background()

	// Only one namespace present: must be treated as a miss for both.
	store.Set(ctx, "stock_fundamentals_AAPL_text", []byte("stale"), time.Minute)

	text, _ := client.FetchFundamentals(ctx, "AAPL")

	if provider.detailsCalls != 1 {
		t.Fatalf("expected recompute on half-present pair, got %d calls", provider.detailsCalls)
	}
	if text == "stale" {
		t.Fatal("half-present pair must not be served")
	}
}

func TestFetchFundamentalsProviderError(t *testing.T) {
	provider := &fakeProvider{detailsErr: fmt.Errorf("rate limited")}
	client := newTestClient(provider)
	ctx := context.Background()

	text, jsonStr := client.FetchFundamentals(ctx, "AAPL")

	if text != "Error: Unable to fetch fundamental data for AAPL" {
		t.Errorf("unexpected placeholder: %q", text)
	}
	if jsonStr != "{}" {
		t.Errorf("expected empty JSON object, got %q", jsonStr)
	}

	// Failures are not cached.
	client.FetchFundamentals(ctx, "AAPL")
	if provider.detailsCalls != 2 {
		t.Fatalf("expected failure to bypass cache, got %d calls", provider.detailsCalls)
	}
}

func TestHistoricalWindowsDroppedWithoutData(t *testing.T) {
	provider := &fakeProvider{
		details:  appleDetails(),
		snapshot: appleSnapshot(),
		aggs:     []dataflows.Agg{},
	}
	client := newTestClient(provider)

	text, _ := client.FetchFundamentals(context.Background(), "AAPL")

	if strings.Contains(text, "Change in last") {
		t.Errorf("windows without data must be dropped:\n%s", text)
	}
	if !strings.Contains(text, "Historical Changes:") {
		t.Errorf("section header should remain:\n%s", text)
	}
}

func TestFetchFinancialSeriesMerge(t *testing.T) {
	provider := &fakeProvider{financials: quarterlyFilings(2)}
	client := newTestClient(provider)

	series := client.FetchFinancialSeries(context.Background(), "AAPL")

	for _, metric := range []string{"assets", "revenues", "basic_earnings_per_share", "net_cash_flow"} {
		points, ok := series[metric]
		if !ok {
			t.Fatalf("expected merged series to contain %s", metric)
		}
		if len(points) != 2 {
			t.Fatalf("expected 2 points for %s, got %d", metric, len(points))
		}
	}

	// Most recent first, following provider order.
	if series["revenues"][0].Date != "2024-06-30" || series["revenues"][1].Date != "2024-03-31" {
		t.Errorf("series not ordered most-recent-first: %+v", series["revenues"])
	}
}

func TestFetchFinancialSeriesError(t *testing.T) {
	provider := &fakeProvider{finErr: fmt.Errorf("boom")}
	client := newTestClient(provider)

	if series := client.FetchFinancialSeries(context.Background(), "AAPL"); series != nil {
		t.Fatalf("expected nil series on provider failure, got %v", series)
	}
}
