package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/tools"
)

// Gemini speaks the generateContent wire format. Requested calls arrive as
// a provider-native function-call list (name + structured args, no id) and
// are synthesized into the canonical shape at this boundary: deterministic
// local ids ("call_<index>"), JSON-string arguments, and a forced
// "tool_calls" finish reason.
type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGemini(apiKey, baseURL string, client *http.Client) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (g *Gemini) Name() string { return tools.ProviderGemini }

type gemPart struct {
	Text             string           `json:"text,omitempty"`
	FunctionCall     *gemFunctionCall `json:"functionCall,omitempty"`
	FunctionResponse *gemFunctionResp `json:"functionResponse,omitempty"`
}

type gemFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type gemFunctionResp struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type gemContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []gemPart `json:"parts"`
}

type gemRequest struct {
	SystemInstruction *gemContent      `json:"systemInstruction,omitempty"`
	Contents          []gemContent     `json:"contents"`
	Tools             []map[string]any `json:"tools,omitempty"`
}

type gemResponse struct {
	Candidates []struct {
		Content      gemContent `json:"content"`
		FinishReason string     `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) Complete(ctx context.Context, req Request) (Reply, error) {
	body := gemRequest{Tools: req.Tools}
	for _, t := range req.Turns {
		switch t.Role {
		case conversation.RoleSystem:
			body.SystemInstruction = &gemContent{Parts: []gemPart{{Text: t.Content}}}
		case conversation.RoleAssistant:
			content := gemContent{Role: "model"}
			if t.Content != "" {
				content.Parts = append(content.Parts, gemPart{Text: t.Content})
			}
			for _, call := range t.ToolCalls {
				content.Parts = append(content.Parts, gemPart{FunctionCall: &gemFunctionCall{
					Name: call.Function.Name,
					Args: decodeArgsObject(call.Function.Arguments),
				}})
			}
			body.Contents = append(body.Contents, content)
		case conversation.RoleTool:
			body.Contents = append(body.Contents, gemContent{
				Role: "user",
				Parts: []gemPart{{FunctionResponse: &gemFunctionResp{
					Name:     t.Name,
					Response: decodeArgsObject(t.Content),
				}}},
			})
		default:
			body.Contents = append(body.Contents, gemContent{
				Role:  "user",
				Parts: []gemPart{{Text: t.Content}},
			})
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini: encode request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, req.Model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini: %w", err)
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini: read response: %w", err)
	}

	var decoded gemResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Reply{}, fmt.Errorf("gemini: decode response: %w", err)
	}
	if decoded.Error != nil {
		return Reply{}, fmt.Errorf("gemini: %s", decoded.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("gemini: unexpected status %d", httpResp.StatusCode)
	}
	if len(decoded.Candidates) == 0 {
		return Reply{}, fmt.Errorf("gemini: response contained no candidates")
	}

	candidate := decoded.Candidates[0]
	reply := Reply{FinishReason: normalizeGeminiFinish(candidate.FinishReason)}
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			if reply.Content != "" {
				reply.Content += "\n"
			}
			reply.Content += part.Text
		}
		if part.FunctionCall != nil {
			reply.ToolCalls = append(reply.ToolCalls, SynthesizeCall(len(reply.ToolCalls), part.FunctionCall.Name, part.FunctionCall.Args))
		}
	}
	if len(reply.ToolCalls) > 0 {
		reply.FinishReason = FinishToolCalls
	}
	return reply, nil
}

// SynthesizeCall converts one provider-native structured call into the
// canonical shape: a deterministic local id and JSON-string arguments.
func SynthesizeCall(index int, name string, args map[string]any) conversation.ToolCall {
	serialized, err := json.Marshal(args)
	if err != nil || args == nil {
		serialized = []byte("{}")
	}
	return conversation.ToolCall{
		ID:   fmt.Sprintf("call_%d", index),
		Type: "function",
		Function: conversation.FunctionCall{
			Name:      name,
			Arguments: string(serialized),
		},
	}
}

// decodeArgsObject best-effort decodes a JSON string into an object for
// outbound function call/response parts.
func decodeArgsObject(payload string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(payload), &m); err != nil || m == nil {
		return map[string]any{"content": payload}
	}
	return m
}

func normalizeGeminiFinish(reason string) string {
	switch reason {
	case "STOP", "":
		return FinishStop
	default:
		return reason
	}
}
