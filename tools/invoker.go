package tools

import (
	"context"
	"fmt"
	"time"
)

// Result is the uniform execution envelope. Every failure mode resolves to
// Success=false with a message; Execute never returns a Go error.
type Result struct {
	ToolName      string `json:"toolName"`
	Success       bool   `json:"success"`
	Result        any    `json:"result,omitempty"`
	Error         string `json:"error,omitempty"`
	ElapsedMillis int64  `json:"elapsedMillis"`
}

// Invoker validates arguments and dispatches tool calls by execution mode.
type Invoker struct {
	catalog  *Catalog
	handlers *HandlerTable
	// timeout bounds a single handler execution; zero means no bound.
	timeout time.Duration
}

func NewInvoker(catalog *Catalog, handlers *HandlerTable, timeout time.Duration) *Invoker {
	return &Invoker{catalog: catalog, handlers: handlers, timeout: timeout}
}

// Execute runs the named tool with the given arguments. A nil argument map
// is treated as empty. The returned envelope always carries the tool name
// and a non-negative elapsed duration.
func (inv *Invoker) Execute(ctx context.Context, toolName string, args map[string]any) Result {
	start := time.Now()
	fail := func(format string, a ...any) Result {
		return Result{
			ToolName:      toolName,
			Success:       false,
			Error:         fmt.Sprintf(format, a...),
			ElapsedMillis: time.Since(start).Milliseconds(),
		}
	}

	descriptor, ok := inv.catalog.Get(toolName)
	if !ok {
		return fail("Tool '%s' not found", toolName)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := validateArguments(descriptor.Parameters, args); err != nil {
		return fail("%s", err.Error())
	}

	switch descriptor.Mode {
	case ModeMock:
		// Arguments are unused; the canned response is returned verbatim.
		return Result{
			ToolName:      toolName,
			Success:       true,
			Result:        descriptor.MockResponse,
			ElapsedMillis: time.Since(start).Milliseconds(),
		}
	case ModeBuiltin, ModeInternal:
		fn, ok := inv.handlers.Get(descriptor.Handler)
		if !ok {
			if descriptor.Mode == ModeBuiltin {
				return fail("No builtin handler '%s' found", descriptor.Handler)
			}
			return fail("No internal handler '%s' found", descriptor.Handler)
		}
		value, err := inv.runHandler(ctx, fn, args)
		if err != nil {
			return fail("%s", err.Error())
		}
		return Result{
			ToolName:      toolName,
			Success:       true,
			Result:        value,
			ElapsedMillis: time.Since(start).Milliseconds(),
		}
	default:
		// Unreachable for catalog-registered descriptors; kept for the
		// never-raise contract.
		return fail("unrecognised execution mode %q", descriptor.Mode)
	}
}

type handlerOutcome struct {
	value any
	err   error
}

// runHandler executes fn under the configured timeout and converts panics
// into plain errors so they resolve into the envelope like any other fault.
func (inv *Invoker) runHandler(ctx context.Context, fn Handler, args map[string]any) (any, error) {
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	done := make(chan handlerOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- handlerOutcome{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		value, err := fn(ctx, args)
		done <- handlerOutcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		if inv.timeout > 0 && ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("tool execution timed out after %s", inv.timeout)
		}
		return nil, fmt.Errorf("tool execution cancelled: %v", ctx.Err())
	case out := <-done:
		return out.value, out.err
	}
}
