package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// gatherStockContext runs the context extraction stage: a constrained
// completion that names the tickers the user just asked about, followed by a
// fundamentals fetch per ticker. Sections appear in the order the model
// returned the tickers, separated by blank lines.
func (e *Executor) gatherStockContext(ctx context.Context, conversation []models.ChatMessage) (string, error) {
	msgs := make([]models.ChatMessage, 0, len(conversation)+1)
	msgs = append(msgs, models.ChatMessage{Role: models.RoleSystem, Content: contextAgentSystemPrompt})
	msgs = append(msgs, conversation...)

	resp, err := e.model.Generate(ctx, toSchemaMessages(msgs))
	if err != nil {
		return "", fmt.Errorf("context extraction call: %w", err)
	}

	var parsed struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Content)), &parsed); err != nil {
		return "", fmt.Errorf("malformed context extraction response: %w", err)
	}

	log.Printf("[executor] stocks to retrieve: %v", parsed.Symbols)

	if len(parsed.Symbols) == 0 {
		return "", nil
	}

	// Fetch fundamentals for each ticker concurrently. FetchFundamentals
	// degrades failures to placeholder text, so one bad ticker cannot abort
	// its siblings.
	sections := make([]string, len(parsed.Symbols))
	var wg sync.WaitGroup
	for i, ticker := range parsed.Symbols {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			text, _ := e.enrich.FetchFundamentals(ctx, ticker)
			sections[i] = text
		}(i, ticker)
	}
	wg.Wait()

	return "### Stock Data\n" + strings.Join(sections, "\n\n"), nil
}
