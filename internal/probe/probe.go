// Package probe runs synthetic conversations through the driver with every
// catalog tool allowed and returns the full trace for manual validation.
package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/internal/capability"
	"github.com/petasbytes/go-toolcall/internal/driver"
	"github.com/petasbytes/go-toolcall/internal/metrics"
	"github.com/petasbytes/go-toolcall/internal/session"
	"github.com/petasbytes/go-toolcall/internal/telemetry"
)

const systemPrompt = "You are a helpful assistant. Use the available tools when they help answer the question."

// Request selects what to probe.
type Request struct {
	Query    string `json:"query"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Trace is the full record of one probe conversation.
type Trace struct {
	ConversationID       string `json:"conversationId"`
	Content              string `json:"content"`
	FinishReason         string `json:"finishReason"`
	Iterations           int    `json:"iterations"`
	MaxIterationsReached bool   `json:"maxIterationsReached"`
	// Exchanges counts complete request/result tool exchanges in the
	// transcript; it should match the number of iterations that requested
	// tools when the driver kept results adjacent to their requests.
	Exchanges        int                           `json:"exchanges"`
	ToolCalls        []conversation.ToolCallRecord `json:"toolCalls"`
	ContentFeatures  metrics.Features              `json:"contentFeatures"`
	CallStats        metrics.CallStats             `json:"callStats"`
	CapabilityStatus capability.Status             `json:"capabilityStatus"`
}

// Runner wires the driver, the capability tracker, and a rate limit on
// synthetic runs.
type Runner struct {
	driver  *driver.Driver
	session *session.Manager
	tracker *capability.Tracker
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewRunner(d *driver.Driver, mgr *session.Manager, tracker *capability.Tracker, limiter *rate.Limiter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{driver: d, session: mgr, tracker: tracker, limiter: limiter, logger: logger}
}

// ToolInfo is one row of the listing interface.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        string `json:"mode"`
}

// ListTools exposes catalog contents for display and debugging.
func (r *Runner) ListTools() []ToolInfo {
	descriptors := r.session.Catalog().List()
	out := make([]ToolInfo, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, ToolInfo{Name: d.Name, Description: d.Description, Mode: string(d.Mode)})
	}
	return out
}

// Run executes one synthetic conversation with all catalog tools allowed
// and reports the outcome to the capability tracker.
func (r *Runner) Run(ctx context.Context, req Request) (Trace, error) {
	if req.Query == "" {
		return Trace{}, fmt.Errorf("probe query is required")
	}
	if r.limiter != nil && !r.limiter.Allow() {
		return Trace{}, fmt.Errorf("probe rate limit exceeded; retry later")
	}

	conversationID := uuid.NewString()
	ctx = telemetry.WithConversationID(ctx, conversationID)

	state := conversation.NewState(systemPrompt, req.Query)
	outcome, err := r.driver.Run(ctx, state, driver.Options{
		ProviderID: req.Provider,
		Model:      req.Model,
		// An empty allowed set projects every catalog tool.
	})
	success := err == nil && !outcome.MaxIterationsReached
	if r.tracker != nil && req.Model != "" {
		r.tracker.Record(req.Model, success)
	}
	telemetry.Emit("probe_run", map[string]any{
		"conversation_id": conversationID,
		"model":           req.Model,
		"provider":        req.Provider,
		"success":         success,
		"tool_calls":      len(state.ToolCallLog),
	})
	if err != nil {
		return Trace{}, err
	}

	trace := Trace{
		ConversationID:       conversationID,
		Content:              outcome.Content,
		FinishReason:         outcome.FinishReason,
		Iterations:           state.IterationCount,
		MaxIterationsReached: outcome.MaxIterationsReached,
		Exchanges:            countExchanges(state.Turns),
		ToolCalls:            outcome.ToolCalls,
		ContentFeatures:      metrics.CountFeatures(outcome.Content),
		CallStats:            metrics.SummarizeCalls(outcome.ToolCalls),
	}
	if r.tracker != nil {
		trace.CapabilityStatus = r.tracker.Status(req.Model)
	}
	return trace, nil
}

// countExchanges groups the transcript and counts the spans where a tool
// request stayed adjacent to the full set of its results.
func countExchanges(turns []conversation.Turn) int {
	n := 0
	for _, g := range conversation.GroupTurns(turns) {
		if g.Kind == conversation.GroupExchange {
			n++
		}
	}
	return n
}
