package models

// Widget kinds the response stage may emit. Unknown kinds are passed through
// to the front end untouched.
const (
	WidgetStockChart      = "showStockChart"
	WidgetStockPrice      = "showStockPrice"
	WidgetStockFinancials = "showStockFinancials"
	WidgetSpreadsheet     = "showSpreadsheet"
	WidgetStockNews       = "showStockNews"
	WidgetStockScreener   = "showStockScreener"
	WidgetMarketOverview  = "showMarketOverview"
	WidgetMarketHeatmap   = "showMarketHeatmap"
	WidgetETFHeatmap      = "showETFHeatmap"
	WidgetTrendingStocks  = "showTrendingStocks"
	WidgetInformation     = "showInformation"
)

var knownWidgetTypes = map[string]bool{
	WidgetStockChart:      true,
	WidgetStockPrice:      true,
	WidgetStockFinancials: true,
	WidgetSpreadsheet:     true,
	WidgetStockNews:       true,
	WidgetStockScreener:   true,
	WidgetMarketOverview:  true,
	WidgetMarketHeatmap:   true,
	WidgetETFHeatmap:      true,
	WidgetTrendingStocks:  true,
	WidgetInformation:     true,
}

func KnownWidgetType(t string) bool {
	return knownWidgetTypes[t]
}

// Widget is one UI-rendering directive. Parameters are kind-specific and kept
// opaque; only showSpreadsheet widgets carry a Data payload.
type Widget struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
	Data       []SeriesPoint  `json:"data,omitempty"`
}

// Symbol returns the widget's symbol parameter, if present.
func (w *Widget) Symbol() string {
	s, _ := w.Parameters["symbol"].(string)
	return s
}

// Metric returns the widget's metric parameter, if present.
func (w *Widget) Metric() string {
	m, _ := w.Parameters["metric"].(string)
	return m
}

// SeriesPoint is one {period-end date, value} pair in a financial statement
// series, ordered most-recent-first.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
