package tools

import (
	"context"
	"fmt"
)

// Handler executes a tool's local logic. Arguments have already been
// validated against the descriptor's schema.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// HandlerTable maps handler names to callables. It is populated only from
// trusted startup configuration; handler code is never resolved from
// arbitrary untrusted strings.
type HandlerTable struct {
	byName map[string]Handler
}

// NewHandlerTable returns a table pre-loaded with the built-in handlers.
func NewHandlerTable() *HandlerTable {
	t := &HandlerTable{byName: map[string]Handler{}}
	for name, fn := range builtinHandlers() {
		t.byName[name] = fn
	}
	return t
}

// Register adds a handler. A nil fn is a registration defect and is
// reported with the offending name.
func (t *HandlerTable) Register(name string, fn Handler) error {
	if fn == nil {
		return fmt.Errorf("handler %q must be a function, got nil", name)
	}
	t.byName[name] = fn
	return nil
}

func (t *HandlerTable) Get(name string) (Handler, bool) {
	fn, ok := t.byName[name]
	return fn, ok
}

func (t *HandlerTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}
