package agents

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bklieger-groq/voice-stockbot/internal/cache"
	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// Session key under which the turn's widgets are serialized for the UI.
const sessionWidgetsKey = "stock-widgets"

// Cancellation flags live in the task store under task-<id>; this value
// suppresses the turn's output.
const cancelledSentinel = "cancelled"

// Enricher is the enrichment surface the pipeline needs; *enrich.Client
// implements it.
type Enricher interface {
	FetchFundamentals(ctx context.Context, ticker string) (text string, jsonStr string)
	FetchFinancialSeries(ctx context.Context, ticker string) map[string][]models.SeriesPoint
}

// Executor sequences one conversation turn: context extraction, response
// generation, widget post-processing, cancellation check, event emission.
// Construct once at startup and share across turns; it holds no per-turn
// state.
type Executor struct {
	model  ChatCompleter
	enrich Enricher
	tasks  cache.Store
}

func NewExecutor(model ChatCompleter, enricher Enricher, tasks cache.Store) *Executor {
	return &Executor{
		model:  model,
		enrich: enricher,
		tasks:  tasks,
	}
}

// Run executes one turn and returns its output events: a widget-information
// event followed by a customer response event, each carrying the updated
// session. A cancelled or failed turn returns nil; failures are logged here
// and never escape, so a broken turn yields silence rather than a crash.
func (e *Executor) Run(ctx context.Context, req models.TurnRequest) []models.AgentEvent {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[executor] panic during turn %s: %v", req.TaskID, r)
		}
	}()

	events, err := e.singleTurn(ctx, req)
	if err != nil {
		log.Printf("[executor] turn %s failed: %v", req.TaskID, err)
		return nil
	}
	return events
}

func (e *Executor) singleTurn(ctx context.Context, req models.TurnRequest) ([]models.AgentEvent, error) {
	conversation := append([]models.ChatMessage(nil), req.Messages...)

	stockContext, err := e.gatherStockContext(ctx, conversation)
	if err != nil {
		return nil, err
	}

	reply, raw, err := e.generateResponse(ctx, stockContext, conversation)
	if err != nil {
		return nil, err
	}
	log.Printf("[executor] LLM response: %s", raw)

	widgets := e.attachSpreadsheetData(ctx, reply.Widgets)
	if widgets == nil {
		widgets = []models.Widget{}
	}
	widgetsJSON, err := json.Marshal(widgets)
	if err != nil {
		return nil, err
	}

	session := req.Session
	if session == nil {
		session = map[string]any{}
	}
	session[sessionWidgetsKey] = string(widgetsJSON)

	// Cancellation is checked once, after generation and before any event
	// is emitted.
	if e.cancelled(ctx, req.TaskID) {
		log.Printf("[executor] task %s cancelled, suppressing output", req.TaskID)
		return nil, nil
	}

	newMessages := []models.ChatMessage{{Role: models.RoleAssistant, Content: raw}}

	return []models.AgentEvent{
		{
			Messages: newMessages,
			Node:     models.NodeWidget,
			Output: models.WidgetOutput{
				Type:    "widget-information",
				Details: string(widgetsJSON),
			},
			Session: session,
		},
		{
			Messages: newMessages,
			Node:     models.NodeCustomerResponse,
			Output:   reply.Response,
			Session:  session,
		},
	}, nil
}

func (e *Executor) cancelled(ctx context.Context, taskID string) bool {
	if taskID == "" {
		return false
	}
	val, ok := e.tasks.Get(ctx, "task-"+taskID)
	return ok && string(val) == cancelledSentinel
}
