package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"

	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// modelReply is the two-field JSON contract of the response generation stage.
type modelReply struct {
	Widgets  []models.Widget `json:"widgets"`
	Response string          `json:"response"`
}

// generateResponse runs the response generation stage. The stock context is
// prepended to the behavioral system prompt, followed by the seeded greeting
// and the full conversation. A failed call or malformed JSON gets exactly one
// blind retry of the identical request; a second failure is fatal for the
// turn. Returns the parsed reply and the raw completion text, which becomes
// the turn's assistant message.
func (e *Executor) generateResponse(ctx context.Context, stockContext string, conversation []models.ChatMessage) (*modelReply, string, error) {
	msgs := make([]models.ChatMessage, 0, len(conversation)+2)
	msgs = append(msgs, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: stockContext + "\n# Instructions\n" + responseSystemPrompt,
	})
	msgs = append(msgs, models.ChatMessage{Role: models.RoleAssistant, Content: assistantGreeting})
	msgs = append(msgs, conversation...)

	input := toSchemaMessages(msgs)

	reply, raw, err := e.completeJSON(ctx, input)
	if err != nil {
		log.Printf("[executor] generation attempt failed, retrying once: %v", err)
		reply, raw, err = e.completeJSON(ctx, input)
	}
	if err != nil {
		return nil, "", err
	}
	return reply, raw, nil
}

func (e *Executor) completeJSON(ctx context.Context, input []*schema.Message) (*modelReply, string, error) {
	resp, err := e.model.Generate(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("generation call: %w", err)
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Content)), &reply); err != nil {
		return nil, "", fmt.Errorf("malformed generation response: %w", err)
	}
	return &reply, resp.Content, nil
}
