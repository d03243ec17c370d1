package agents

import (
	"context"
	"log"

	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// attachSpreadsheetData fills in the data payload of every showSpreadsheet
// widget from the ticker's financial series. A metric missing from the series
// leaves the widget without a payload; other widget kinds, including unknown
// ones, pass through untouched.
func (e *Executor) attachSpreadsheetData(ctx context.Context, widgets []models.Widget) []models.Widget {
	for i := range widgets {
		w := &widgets[i]
		if !models.KnownWidgetType(w.Type) {
			log.Printf("[executor] unknown widget type %q passed through", w.Type)
			continue
		}
		if w.Type != models.WidgetSpreadsheet {
			continue
		}
		series := e.enrich.FetchFinancialSeries(ctx, w.Symbol())
		if data, ok := series[w.Metric()]; ok {
			w.Data = data
		}
	}
	return widgets
}
