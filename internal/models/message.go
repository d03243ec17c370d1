package models

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// ChatMessage is one role-tagged entry in a conversation. Conversations are
// append-only; the caller supplies prior history and receives this turn's new
// messages back on each event.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is one inbound user turn.
type TurnRequest struct {
	Messages []ChatMessage  `json:"messages"`
	Session  map[string]any `json:"session"`
	TaskID   string         `json:"task_id"`
}

// Node names for outbound events. The front end routes on these.
const (
	NodeWidget           = "Widget"
	NodeCustomerResponse = "CustomerResponse"
)

// WidgetOutput is the payload of the widget-information event.
type WidgetOutput struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// AgentEvent is one outbound event. A non-cancelled turn emits exactly two:
// a Widget event followed by a CustomerResponse event.
type AgentEvent struct {
	Messages []ChatMessage  `json:"messages"`
	Node     string         `json:"node"`
	Output   any            `json:"output"`
	Session  map[string]any `json:"session"`
}
