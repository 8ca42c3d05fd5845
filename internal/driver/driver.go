// Package driver runs the bounded tool-calling loop: model call, tool
// execution, result feedback, repeat until a final answer or the
// iteration ceiling.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/internal/provider"
	"github.com/petasbytes/go-toolcall/internal/session"
	"github.com/petasbytes/go-toolcall/internal/telemetry"
	"github.com/petasbytes/go-toolcall/tools"
)

// Outcome is the structured result every run resolves to. Tool failures
// never surface here; they are fed back to the model as conversation data.
type Outcome struct {
	Content              string                        `json:"content"`
	ToolCalls            []conversation.ToolCallRecord `json:"toolCalls"`
	MaxIterationsReached bool                          `json:"maxIterationsReached"`
	FinishReason         string                        `json:"finishReason"`
}

// Options selects the provider, model, and per-request policy.
type Options struct {
	ProviderID   string
	Model        string
	AllowedTools []string
	// MaxIterations overrides the session ceiling when positive.
	MaxIterations int
}

// Driver alternates model calls and tool executions.
type Driver struct {
	providers *provider.Registry
	session   *session.Manager
	logger    *slog.Logger
}

func New(providers *provider.Registry, mgr *session.Manager, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{providers: providers, session: mgr, logger: logger}
}

// Generate is the entry point for response handlers. The loop activates
// only when a session manager is present and enabled and the handler's own
// policy opts in (or tools apply globally); otherwise it falls back to a
// single-shot generation without tools.
func (d *Driver) Generate(ctx context.Context, state *conversation.State, opts Options, policy *config.ResponseTools) (Outcome, error) {
	optedIn := policy != nil && policy.Enabled
	if d.session == nil || !d.session.Enabled() || !(optedIn || d.session.Global()) {
		return d.singleShot(ctx, state, opts)
	}
	if policy != nil {
		if len(opts.AllowedTools) == 0 {
			opts.AllowedTools = policy.AllowedTools
		}
		if opts.MaxIterations == 0 {
			opts.MaxIterations = policy.MaxIterations
		}
	}
	return d.Run(ctx, state, opts)
}

// Run executes the bounded loop. It always returns the structured outcome
// shape; the error return covers provider-level failures only.
func (d *Driver) Run(ctx context.Context, state *conversation.State, opts Options) (Outcome, error) {
	adapter, err := d.providers.Get(opts.ProviderID)
	if err != nil {
		return Outcome{}, err
	}
	// Project the tool list once per request.
	projected, err := d.session.Catalog().ProjectForProvider(opts.ProviderID, opts.AllowedTools)
	if err != nil {
		return Outcome{}, err
	}
	invoker := d.session.Invoker()

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = d.session.MaxIterations()
	}

	conversationID := telemetry.ConversationID(ctx)
	for iteration := 1; iteration <= maxIterations; iteration++ {
		state.IterationCount = iteration
		telemetry.Emit("loop_iteration", map[string]any{
			"conversation_id": conversationID,
			"iteration":       iteration,
			"turns":           len(state.Turns),
		})

		reply, err := adapter.Complete(ctx, provider.Request{
			Model: opts.Model,
			Turns: state.Turns,
			Tools: projected,
		})
		if err != nil {
			return Outcome{}, err
		}

		switch reply.FinishReason {
		case provider.FinishStop, provider.FinishEndTurn:
			state.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: reply.Content})
			state.Terminal = true
			return Outcome{
				Content:      reply.Content,
				ToolCalls:    state.ToolCallLog,
				FinishReason: reply.FinishReason,
			}, nil
		case provider.FinishToolCalls:
			d.executeCalls(ctx, invoker, state, reply, iteration)
		default:
			d.logger.Warn("unexpected finish reason; returning partial content",
				"finish_reason", reply.FinishReason, "iteration", iteration)
			state.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: reply.Content})
			state.Terminal = true
			return Outcome{
				Content:      reply.Content,
				ToolCalls:    state.ToolCallLog,
				FinishReason: reply.FinishReason,
			}, nil
		}
	}

	state.Terminal = true
	return Outcome{
		Content: fmt.Sprintf("Reached the maximum of %d tool-calling iterations without a final answer. "+
			"The tool call log below shows everything that was attempted.", maxIterations),
		ToolCalls:            state.ToolCallLog,
		MaxIterationsReached: true,
		FinishReason:         "max_iterations",
	}, nil
}

// executeCalls runs every requested call in request order, appending one
// assistant turn for the request and one tool turn per call.
func (d *Driver) executeCalls(ctx context.Context, invoker *tools.Invoker, state *conversation.State, reply provider.Reply, iteration int) {
	state.AppendAssistantRequest(reply.Content, reply.ToolCalls)
	conversationID := telemetry.ConversationID(ctx)

	for _, call := range reply.ToolCalls {
		name := call.Function.Name
		args, parseErr := ParseArguments(call.Function.Arguments)

		var result tools.Result
		if parseErr != nil {
			// Malformed payloads are recorded as failed calls, not crashes.
			result = tools.Result{
				ToolName: name,
				Success:  false,
				Error:    fmt.Sprintf("malformed tool arguments: %v", parseErr),
			}
		} else {
			result = invoker.Execute(ctx, name, args)
		}

		state.AppendToolResult(call.ID, name, serializeResult(result))
		state.Log(conversation.ToolCallRecord{
			ToolName:      name,
			Args:          args,
			Result:        result,
			Iteration:     iteration,
			ElapsedMillis: result.ElapsedMillis,
		})
		telemetry.Emit("tool_exec", map[string]any{
			"conversation_id": conversationID,
			"tool_name":       name,
			"iteration":       iteration,
			"success":         result.Success,
			"duration_ms":     result.ElapsedMillis,
		})
	}
}

// singleShot performs one generation without tools.
func (d *Driver) singleShot(ctx context.Context, state *conversation.State, opts Options) (Outcome, error) {
	adapter, err := d.providers.Get(opts.ProviderID)
	if err != nil {
		return Outcome{}, err
	}
	reply, err := adapter.Complete(ctx, provider.Request{Model: opts.Model, Turns: state.Turns})
	if err != nil {
		return Outcome{}, err
	}
	state.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: reply.Content})
	state.IterationCount = 1
	state.Terminal = true
	return Outcome{Content: reply.Content, FinishReason: reply.FinishReason}, nil
}

// ParseArguments decodes a serialized arguments payload into a map. An
// empty payload means no arguments. Some providers double-encode the
// payload as a JSON string; that inner document is unwrapped before use.
func ParseArguments(payload string) (map[string]any, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return map[string]any{}, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	parsed := gjson.Parse(trimmed)
	if parsed.Type == gjson.String {
		inner := parsed.String()
		if !gjson.Valid(inner) {
			return nil, fmt.Errorf("payload is a string but not valid inner JSON")
		}
		parsed = gjson.Parse(inner)
	}
	object, ok := parsed.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload must be a JSON object")
	}
	return object, nil
}

// serializeResult renders the envelope for the tool-result turn fed back
// to the model.
func serializeResult(result tools.Result) string {
	out := "{}"
	out, _ = sjson.Set(out, "success", result.Success)
	if result.Success {
		out, _ = sjson.Set(out, "result", result.Result)
	} else {
		out, _ = sjson.Set(out, "error", result.Error)
	}
	return out
}
