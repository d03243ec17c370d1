package enrich

import (
	"context"
	"log"

	"github.com/bklieger-groq/voice-stockbot/internal/dataflows"
	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// FetchFinancialSeries merges balance sheet, income statement, and cash flow
// line items across every quarterly filing into one series per metric name.
// The provider returns filings newest-first, so each series is ordered
// most-recent-first. A provider failure is logged and yields nil; callers
// treat that as an empty mapping.
func (c *Client) FetchFinancialSeries(ctx context.Context, ticker string) map[string][]models.SeriesPoint {
	filings, err := c.provider.ListFinancials(ctx, ticker)
	if err != nil {
		log.Printf("[enrich] error fetching financials for %s: %v", ticker, err)
		return nil
	}
	return mergeFinancials(filings)
}

func mergeFinancials(filings []dataflows.StockFinancial) map[string][]models.SeriesPoint {
	data := make(map[string][]models.SeriesPoint)
	for _, filing := range filings {
		statements := []dataflows.StatementMap{
			filing.Financials.BalanceSheet,
			filing.Financials.IncomeStatement,
			filing.Financials.CashFlowStatement,
		}
		for _, stmt := range statements {
			for key, item := range stmt {
				data[key] = append(data[key], models.SeriesPoint{
					Date:  filing.EndDate,
					Value: item.Value,
				})
			}
		}
	}
	return data
}
