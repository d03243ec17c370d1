package models

// NotAvailable is the sentinel written for any fundamentals field the
// provider did not return. Downstream rendering relies on every field being
// present, so absence is normalized here rather than handled at each call site.
const NotAvailable = "not available"

type FundamentalsAddress struct {
	Address1   any `json:"address1"`
	Address2   any `json:"address2"`
	City       any `json:"city"`
	State      any `json:"state"`
	Country    any `json:"country"`
	PostalCode any `json:"postal_code"`
}

// Fundamentals is the normalized snapshot for one ticker. Scalar fields hold
// either the provider value or the NotAvailable sentinel, mirroring the JSON
// rendering handed to the model: numbers stay numeric when present and become
// the sentinel string when absent.
type Fundamentals struct {
	Address                     FundamentalsAddress    `json:"address"`
	CIK                         any                    `json:"cik"`
	CurrencyName                any                    `json:"currency_name"`
	Description                 any                    `json:"description"`
	HomepageURL                 any                    `json:"homepage_url"`
	ListDate                    any                    `json:"list_date"`
	Locale                      any                    `json:"locale"`
	MarketCap                   any                    `json:"market_cap"`
	Name                        any                    `json:"name"`
	PrimaryExchange             any                    `json:"primary_exchange"`
	ShareClassSharesOutstanding any                    `json:"share_class_shares_outstanding"`
	SICDescription              any                    `json:"sic_description"`
	Ticker                      any                    `json:"ticker"`
	TotalEmployees              any                    `json:"total_employees"`
	WeightedSharesOutstanding   any                    `json:"weighted_shares_outstanding"`
	LivePrice                   any                    `json:"live_price"`
	TodaysChange                any                    `json:"todays_change"`
	TodaysChangePercent         any                    `json:"todays_change_percent"`
	HistoricalChanges           map[string]PriceChange `json:"historical_changes"`
}

// PriceChange is the percent move over one trailing lookback window.
type PriceChange struct {
	Change    float64 `json:"change"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}
