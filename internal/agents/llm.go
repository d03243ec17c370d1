package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	openaiacl "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/bklieger-groq/voice-stockbot/config"
	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

// ChatCompleter is the slice of an eino chat model the pipeline needs.
// Satisfied by the openai and deepseek models; tests substitute fakes.
type ChatCompleter interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// NewChatModel builds the chat model selected by config. The openai path
// requests JSON-object responses at the API level; the deepseek path relies
// on the prompt contract.
func NewChatModel(ctx context.Context, cfg *config.Config) (ChatCompleter, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModelID,
			MaxTokens: cfg.LLMMaxTokens,
		})
	case "openai", "":
		maxTokens := cfg.LLMMaxTokens
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.LLMBaseURL,
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModelID,
			MaxTokens: &maxTokens,
			ResponseFormat: &openaiacl.ChatCompletionResponseFormat{
				Type: openaiacl.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}

func toSchemaMessages(msgs []models.ChatMessage) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &schema.Message{
			Role:    schema.RoleType(m.Role),
			Content: m.Content,
		})
	}
	return out
}

// extractJSONObject unwraps a completion that arrived inside a markdown code
// fence. Returned text is handed straight to json.Unmarshal.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
