// Package provider normalizes provider-specific chat conventions into one
// canonical call/result shape so the conversation driver is written once.
// Each concrete integration owns the wire translation at its own boundary.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/petasbytes/go-toolcall/conversation"
)

// Canonical finish reasons the driver understands.
const (
	FinishStop      = "stop"
	FinishEndTurn   = "end_turn"
	FinishToolCalls = "tool_calls"
)

// Request is the single "send conversation, get next turn" primitive.
// Tools carries the catalog projection for this adapter's provider.
type Request struct {
	Model string
	Turns []conversation.Turn
	Tools []map[string]any
}

// Reply is one normalized model turn.
type Reply struct {
	Content      string
	ToolCalls    []conversation.ToolCall
	FinishReason string
}

// Adapter is implemented by each concrete provider integration.
type Adapter interface {
	Name() string
	Complete(ctx context.Context, req Request) (Reply, error)
}

// Registry dispatches requests to named adapters.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Adapter{}}
}

// Register adds an adapter under its own name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[a.Name()] = a
}

// Get returns the named adapter.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", name)
	}
	return a, nil
}

// Names lists registered adapter names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	return out
}
