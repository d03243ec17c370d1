package dataflows

import (
	"context"
	"time"
)

// StockDataProvider is the capability surface the enrichment layer needs from
// a market data vendor. Implemented by PolygonClient; tests substitute fakes.
type StockDataProvider interface {
	GetTickerDetails(ctx context.Context, ticker string) (*TickerDetails, error)
	GetSnapshot(ctx context.Context, ticker string) (*Snapshot, error)
	ListFinancials(ctx context.Context, ticker string) ([]StockFinancial, error)
	GetAggs(ctx context.Context, ticker string, from, to time.Time) ([]Agg, error)
}

// Address is the registered address block of a ticker. The provider may omit
// it entirely for some listings.
type Address struct {
	Address1   *string `json:"address1"`
	Address2   *string `json:"address2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
}

// TickerDetails is the reference record for one ticker. Scalars are pointers
// because the provider omits anything it does not know.
type TickerDetails struct {
	Ticker                      string   `json:"ticker"`
	Name                        *string  `json:"name"`
	Description                 *string  `json:"description"`
	Address                     *Address `json:"address"`
	CIK                         *string  `json:"cik"`
	CurrencyName                *string  `json:"currency_name"`
	HomepageURL                 *string  `json:"homepage_url"`
	ListDate                    *string  `json:"list_date"`
	Locale                      *string  `json:"locale"`
	MarketCap                   *float64 `json:"market_cap"`
	PrimaryExchange             *string  `json:"primary_exchange"`
	ShareClassSharesOutstanding *float64 `json:"share_class_shares_outstanding"`
	SICDescription              *string  `json:"sic_description"`
	TotalEmployees              *float64 `json:"total_employees"`
	WeightedSharesOutstanding   *float64 `json:"weighted_shares_outstanding"`
}

// DayBar is the current day's aggregate within a snapshot.
type DayBar struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// Snapshot is the delayed real-time view of one ticker.
type Snapshot struct {
	Ticker              string  `json:"ticker"`
	Day                 *DayBar `json:"day"`
	TodaysChange        float64 `json:"todaysChange"`
	TodaysChangePercent float64 `json:"todaysChangePerc"`
}

// Agg is one daily aggregate bar.
type Agg struct {
	Close     float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

// LineItem is one reported value in a financial statement.
type LineItem struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Label string  `json:"label,omitempty"`
}

// StatementMap holds a statement's line items keyed by metric name
// (e.g. "revenues", "basic_earnings_per_share").
type StatementMap map[string]LineItem

// Financials groups the three statements of one filing.
type Financials struct {
	BalanceSheet      StatementMap `json:"balance_sheet"`
	IncomeStatement   StatementMap `json:"income_statement"`
	CashFlowStatement StatementMap `json:"cash_flow_statement"`
}

// StockFinancial is one quarterly filing.
type StockFinancial struct {
	EndDate      string     `json:"end_date"`
	FiscalPeriod string     `json:"fiscal_period"`
	FiscalYear   string     `json:"fiscal_year"`
	Financials   Financials `json:"financials"`
}
