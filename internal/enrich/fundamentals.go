package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/bklieger-groq/voice-stockbot/internal/dataflows"
	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// lookbackWindows are the trailing intervals rendered under Historical
// Changes, in display order.
var lookbackWindows = []struct {
	Label string
	Delta time.Duration
}{
	{"1 week", 7 * 24 * time.Hour},
	{"1 month", 30 * 24 * time.Hour},
	{"3 months", 90 * 24 * time.Hour},
	{"6 months", 180 * 24 * time.Hour},
	{"1 year", 365 * 24 * time.Hour},
	{"2 years", 730 * 24 * time.Hour},
}

func fundamentalsCacheKeys(ticker string) (textKey, jsonKey string) {
	base := "stock_fundamentals_" + ticker
	return base + "_text", base + "_json"
}

// FetchFundamentals returns the natural-language and JSON renderings of a
// ticker's fundamentals. The two renderings are cached as a pair; unless both
// hit, both are recomputed. A provider failure degrades to an error
// placeholder and an empty JSON object so one bad ticker never aborts a turn.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (string, string) {
	ticker = dataflows.NormalizeSymbol(ticker)
	textKey, jsonKey := fundamentalsCacheKeys(ticker)

	cachedText, textOK := c.store.Get(ctx, textKey)
	cachedJSON, jsonOK := c.store.Get(ctx, jsonKey)
	if textOK && jsonOK {
		log.Printf("[enrich] cache hit for %s", ticker)
		return string(cachedText), string(cachedJSON)
	}

	text, jsonStr, err := c.buildFundamentals(ctx, ticker)
	if err != nil {
		log.Printf("[enrich] error fetching fundamental data for %s: %v", ticker, err)
		return fmt.Sprintf("Error: Unable to fetch fundamental data for %s", ticker), "{}"
	}

	c.store.Set(ctx, textKey, []byte(text), fundamentalsTTL)
	c.store.Set(ctx, jsonKey, []byte(jsonStr), fundamentalsTTL)

	return text, jsonStr
}

func (c *Client) buildFundamentals(ctx context.Context, ticker string) (string, string, error) {
	details, err := c.provider.GetTickerDetails(ctx, ticker)
	if err != nil {
		return "", "", err
	}
	info := normalizeDetails(details)

	snapshot, err := c.provider.GetSnapshot(ctx, ticker)
	if err != nil {
		return "", "", err
	}

	// Snapshot prices are delayed, so the close is rounded before rendering.
	if snapshot.Day != nil {
		info.LivePrice = math.Round(snapshot.Day.Close)
	}
	info.TodaysChange = snapshot.TodaysChange
	info.TodaysChangePercent = snapshot.TodaysChangePercent
	info.HistoricalChanges = c.historicalChanges(ctx, ticker)

	series := c.FetchFinancialSeries(ctx, ticker)
	ttm := renderTrailingTwelveMonths(series)

	text := renderFundamentalsText(info, ttm)

	jsonBytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", "", err
	}

	return text, string(jsonBytes), nil
}

// historicalChanges computes the percent price move over each lookback
// window. A window the provider has no bars for is dropped rather than
// rendered, which covers recently listed tickers.
func (c *Client) historicalChanges(ctx context.Context, ticker string) map[string]models.PriceChange {
	end := time.Now()
	results := make(map[string]models.PriceChange)

	for _, window := range lookbackWindows {
		start := end.Add(-window.Delta)
		aggs, err := c.provider.GetAggs(ctx, ticker, start, end)
		if err != nil {
			log.Printf("[enrich] error fetching %s data for %s: %v", window.Label, ticker, err)
			continue
		}
		if len(aggs) == 0 {
			continue
		}

		startPrice := decimal.NewFromFloat(aggs[0].Close)
		endPrice := decimal.NewFromFloat(aggs[len(aggs)-1].Close)
		if startPrice.IsZero() {
			continue
		}
		change := endPrice.Sub(startPrice).
			Div(startPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2)

		results[window.Label] = models.PriceChange{
			Change:    change.InexactFloat64(),
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		}
	}

	return results
}

// renderTrailingTwelveMonths sums the four most recent quarters of revenue
// and basic EPS. With fewer than four quarters of either series the derived
// lines are omitted entirely.
func renderTrailingTwelveMonths(series map[string][]models.SeriesPoint) string {
	revenues := series["revenues"]
	eps := series["basic_earnings_per_share"]
	if len(revenues) < 4 || len(eps) < 4 {
		return ""
	}

	trailingRevenue := decimal.Zero
	for _, point := range revenues[:4] {
		trailingRevenue = trailingRevenue.Add(decimal.NewFromFloat(point.Value))
	}
	trailingEPS := decimal.Zero
	for _, point := range eps[:4] {
		trailingEPS = trailingEPS.Add(decimal.NewFromFloat(point.Value))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Annual Revenue (Trailing 12 mo): $%s as of %s",
		commaf(trailingRevenue.InexactFloat64()), revenues[0].Date)
	fmt.Fprintf(&b, "\nAnnual EPS (Trailing 12 mo): $%s as of %s",
		commaf(trailingEPS.InexactFloat64()), eps[0].Date)
	return b.String()
}

func normalizeDetails(details *dataflows.TickerDetails) *models.Fundamentals {
	info := &models.Fundamentals{
		Address:                     normalizeAddress(details.Address),
		CIK:                         strOr(details.CIK),
		CurrencyName:                strOr(details.CurrencyName),
		Description:                 strOr(details.Description),
		HomepageURL:                 strOr(details.HomepageURL),
		ListDate:                    strOr(details.ListDate),
		Locale:                      strOr(details.Locale),
		MarketCap:                   numOr(details.MarketCap),
		Name:                        strOr(details.Name),
		PrimaryExchange:             strOr(details.PrimaryExchange),
		ShareClassSharesOutstanding: numOr(details.ShareClassSharesOutstanding),
		SICDescription:              strOr(details.SICDescription),
		Ticker:                      details.Ticker,
		TotalEmployees:              numOr(details.TotalEmployees),
		WeightedSharesOutstanding:   numOr(details.WeightedSharesOutstanding),
		LivePrice:                   models.NotAvailable,
		TodaysChange:                models.NotAvailable,
		TodaysChangePercent:         models.NotAvailable,
		HistoricalChanges:           map[string]models.PriceChange{},
	}
	return info
}

func normalizeAddress(addr *dataflows.Address) models.FundamentalsAddress {
	if addr == nil {
		addr = &dataflows.Address{}
	}
	return models.FundamentalsAddress{
		Address1:   strOr(addr.Address1),
		Address2:   strOr(addr.Address2),
		City:       strOr(addr.City),
		State:      strOr(addr.State),
		Country:    strOr(addr.Country),
		PostalCode: strOr(addr.PostalCode),
	}
}

func strOr(p *string) any {
	if p == nil || *p == "" {
		return models.NotAvailable
	}
	return *p
}

func numOr(p *float64) any {
	if p == nil {
		return models.NotAvailable
	}
	return *p
}

// commaf renders a number with thousands separators and two decimal places.
// Used in the text rendering only; the JSON rendering keeps raw numbers.
func commaf(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := math.Floor(v)
	frac := int(math.Round((v - whole) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(int64(whole)), frac)
}

func moneyField(v any) string {
	if f, ok := v.(float64); ok {
		return "$" + commaf(f)
	}
	return models.NotAvailable
}

func countField(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return models.NotAvailable
}

func priceLine(v any, format string) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf(format, f)
	}
	return models.NotAvailable
}

func renderFundamentalsText(info *models.Fundamentals, ttm string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Company: %v (%v)\n", info.Name, info.Ticker)
	fmt.Fprintf(&b, "Description: %v\n", info.Description)
	fmt.Fprintf(&b, "Address: %v, %v, %v %v\n",
		info.Address.Address1, info.Address.City, info.Address.State, info.Address.PostalCode)
	fmt.Fprintf(&b, "Website: %v\n", info.HomepageURL)
	fmt.Fprintf(&b, "List Date: %v\n", info.ListDate)
	fmt.Fprintf(&b, "Locale: %v\n", info.Locale)
	fmt.Fprintf(&b, "Market Cap: %s\n", moneyField(info.MarketCap))
	fmt.Fprintf(&b, "Primary Exchange: %v\n", info.PrimaryExchange)
	fmt.Fprintf(&b, "Industry: %v\n", info.SICDescription)
	fmt.Fprintf(&b, "Total Employees: %s\n", countField(info.TotalEmployees))
	fmt.Fprintf(&b, "Share Class Shares Outstanding: %s\n", countField(info.ShareClassSharesOutstanding))
	fmt.Fprintf(&b, "Weighted Shares Outstanding: %s\n", countField(info.WeightedSharesOutstanding))
	if ttm != "" {
		b.WriteString(ttm)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nLive Price: about %s (delayed by 15 min, see live price on screen)\n",
		priceLine(info.LivePrice, "$%.3f"))
	fmt.Fprintf(&b, "Today's Change: %s (%s) (delayed by 15 min, see live price on screen)\n",
		priceLine(info.TodaysChange, "$%.2f"),
		priceLine(info.TodaysChangePercent, "%.2f%%"))

	b.WriteString("\nHistorical Changes:\n")
	for _, window := range lookbackWindows {
		change, ok := info.HistoricalChanges[window.Label]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "Change in last %s (%s to %s): %v%%\n",
			window.Label, change.StartDate, change.EndDate, change.Change)
	}

	return b.String()
}
