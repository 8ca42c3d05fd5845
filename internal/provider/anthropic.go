package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/tools"
)

const anthropicMaxTokens = 1024

// Anthropic wraps the official SDK. Tool-use content blocks are normalized
// into canonical calls (the SDK reports structured input; arguments are
// re-serialized to the JSON-string contract), and the "tool_use" stop
// reason maps to the canonical "tool_calls" finish signal.
type Anthropic struct {
	client *anthropic.Client
}

func NewAnthropic(apiKey string) *Anthropic {
	var c anthropic.Client
	if apiKey != "" {
		c = anthropic.NewClient(option.WithAPIKey(apiKey))
	} else {
		c = anthropic.NewClient()
	}
	return &Anthropic{client: &c}
}

func (a *Anthropic) Name() string { return tools.ProviderAnthropic }

func (a *Anthropic) Complete(ctx context.Context, req Request) (Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(anthropicMaxTokens),
		Tools:     convertAnthropicTools(req.Tools),
	}

	for _, t := range req.Turns {
		switch t.Role {
		case conversation.RoleSystem:
			params.System = []anthropic.TextBlockParam{{Text: t.Content}}
		case conversation.RoleAssistant:
			blocks := []anthropic.ContentBlockParamUnion{}
			if t.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(t.Content))
			}
			for _, call := range t.ToolCalls {
				toolUse := anthropic.ToolUseBlockParam{
					ID:    call.ID,
					Name:  call.Function.Name,
					Input: json.RawMessage(call.Function.Arguments),
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{OfToolUse: &toolUse})
			}
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(blocks...))
		case conversation.RoleTool:
			// Tool results travel back as user-role content blocks.
			params.Messages = append(params.Messages,
				anthropic.NewUserMessage(anthropic.NewToolResultBlock(t.ToolCallID, t.Content, false)))
		default:
			params.Messages = append(params.Messages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("anthropic: %w", err)
	}

	reply := Reply{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if reply.Content != "" {
				reply.Content += "\n"
			}
			reply.Content += v.Text
		case anthropic.ToolUseBlock:
			reply.ToolCalls = append(reply.ToolCalls, conversation.ToolCall{
				ID:   v.ID,
				Type: "function",
				Function: conversation.FunctionCall{
					Name:      v.Name,
					Arguments: v.JSON.Input.Raw(),
				},
			})
		}
	}

	switch string(msg.StopReason) {
	case "tool_use":
		reply.FinishReason = FinishToolCalls
	case "end_turn":
		reply.FinishReason = FinishEndTurn
	default:
		reply.FinishReason = string(msg.StopReason)
	}
	return reply, nil
}

// convertAnthropicTools translates the flat function-tool projection into
// SDK tool params.
func convertAnthropicTools(projected []map[string]any) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(projected))
	for _, entry := range projected {
		function, ok := entry["function"].(map[string]any)
		if !ok {
			continue
		}
		name, _ := function["name"].(string)
		description, _ := function["description"].(string)
		schema := anthropic.ToolInputSchemaParam{}
		if parameters, ok := function["parameters"].(map[string]any); ok {
			schema.Properties = parameters["properties"]
			if required, ok := parameters["required"].([]string); ok {
				schema.Required = required
			}
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(description),
			InputSchema: schema,
		}})
	}
	return out
}
