package enrich

import (
	"time"

	"github.com/bklieger-groq/voice-stockbot/internal/cache"
	"github.com/bklieger-groq/voice-stockbot/internal/dataflows"
)

// fundamentalsTTL bounds how long a ticker's rendered fundamentals are reused
// before the provider is consulted again.
const fundamentalsTTL = 20 * time.Minute

// Client fetches and renders stock data, isolating the provider behind the
// cache. Constructed once at startup and injected wherever stock context is
// needed.
type Client struct {
	provider dataflows.StockDataProvider
	store    cache.Store
}

func NewClient(provider dataflows.StockDataProvider, store cache.Store) *Client {
	return &Client{provider: provider, store: store}
}
