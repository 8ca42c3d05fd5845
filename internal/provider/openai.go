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

// OpenAI speaks the chat-completions wire format. Requested calls arrive
// already in the canonical shape (id + function with JSON-string
// arguments), and finish_reason "tool_calls" signals requests directly.
type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenAI(apiKey, baseURL string, client *http.Client) *OpenAI {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAI{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (o *OpenAI) Name() string { return tools.ProviderOpenAI }

type oaMessage struct {
	Role       string                  `json:"role"`
	Content    string                  `json:"content,omitempty"`
	Name       string                  `json:"name,omitempty"`
	ToolCallID string                  `json:"tool_call_id,omitempty"`
	ToolCalls  []conversation.ToolCall `json:"tool_calls,omitempty"`
}

type oaRequest struct {
	Model      string           `json:"model"`
	Messages   []oaMessage      `json:"messages"`
	Tools      []map[string]any `json:"tools,omitempty"`
	ToolChoice string           `json:"tool_choice,omitempty"`
}

type oaResponse struct {
	Choices []struct {
		Message      oaMessage `json:"message"`
		FinishReason string    `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (Reply, error) {
	return o.complete(ctx, req, o.Name())
}

// complete is shared with the Ollama adapter, which differs only in
// endpoint and name.
func (o *OpenAI) complete(ctx context.Context, req Request, providerName string) (Reply, error) {
	body := oaRequest{Model: req.Model}
	for _, t := range req.Turns {
		body.Messages = append(body.Messages, oaMessage{
			Role:       t.Role,
			Content:    t.Content,
			Name:       t.Name,
			ToolCallID: t.ToolCallID,
			ToolCalls:  t.ToolCalls,
		})
	}
	if len(req.Tools) > 0 {
		body.Tools = req.Tools
		body.ToolChoice = "auto"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: encode request: %w", providerName, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("%s: build request: %w", providerName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", providerName, err)
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: read response: %w", providerName, err)
	}

	var decoded oaResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Reply{}, fmt.Errorf("%s: decode response: %w", providerName, err)
	}
	if decoded.Error != nil {
		return Reply{}, fmt.Errorf("%s: %s", providerName, decoded.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("%s: unexpected status %d", providerName, httpResp.StatusCode)
	}
	if len(decoded.Choices) == 0 {
		return Reply{}, fmt.Errorf("%s: response contained no choices", providerName)
	}

	choice := decoded.Choices[0]
	return Reply{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, nil
}
