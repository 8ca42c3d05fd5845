package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Handler table keys for the built-in handlers.
const (
	HandlerMathEval = "math_eval"
	HandlerEcho     = "echo"
	HandlerDatetime = "datetime"
	HandlerUUID     = "uuid"
)

type calculatorInput struct {
	Expression string `json:"expression" jsonschema_description:"Arithmetic expression to evaluate, e.g. \"3 + 4 * 2\". Supports + - * / % and parentheses."`
}

type echoInput struct {
	Message string `json:"message,omitempty" jsonschema_description:"Any value to echo back."`
}

type datetimeInput struct {
	Timezone string `json:"timezone,omitempty" jsonschema_description:"IANA timezone name such as \"Europe/London\". Defaults to UTC."`
}

type uuidInput struct{}

// Library returns the fixed built-in tool descriptors in their canonical
// order. The session manager resolves configured registry entries against
// this set by name.
func Library() []Descriptor {
	return []Descriptor{
		{
			Name:        "calculator",
			Description: "Evaluate a basic arithmetic expression and return the numeric result.",
			Parameters:  GenerateSchema[calculatorInput](),
			Mode:        ModeBuiltin,
			Handler:     HandlerMathEval,
		},
		{
			Name:        "echo",
			Description: "Echo the supplied arguments back to the caller. Useful for connectivity checks.",
			Parameters:  GenerateSchema[echoInput](),
			Mode:        ModeBuiltin,
			Handler:     HandlerEcho,
		},
		{
			Name:        "get_current_datetime",
			Description: "Return the current date and time, optionally in a specific timezone.",
			Parameters:  GenerateSchema[datetimeInput](),
			Mode:        ModeBuiltin,
			Handler:     HandlerDatetime,
		},
		{
			Name:        "generate_uuid",
			Description: "Generate a random version 4 UUID.",
			Parameters:  GenerateSchema[uuidInput](),
			Mode:        ModeBuiltin,
			Handler:     HandlerUUID,
		},
	}
}

func builtinHandlers() map[string]Handler {
	return map[string]Handler{
		HandlerMathEval: mathEvalHandler,
		HandlerEcho:     echoHandler,
		HandlerDatetime: datetimeHandler,
		HandlerUUID:     uuidHandler,
	}
}

// mathEvalHandler evaluates an arithmetic expression without any form of
// unrestricted code evaluation.
func mathEvalHandler(_ context.Context, args map[string]any) (any, error) {
	raw, ok := args["expression"]
	if !ok {
		return nil, fmt.Errorf("math_eval requires an 'expression' argument")
	}
	expr, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("math_eval 'expression' must be a string, got %T", raw)
	}
	return evalExpression(expr)
}

// echoHandler mirrors the supplied arguments under an "echoed" key.
func echoHandler(_ context.Context, args map[string]any) (any, error) {
	return map[string]any{"echoed": args}, nil
}

// datetimeHandler reports the current time. An unknown timezone name falls
// back to UTC rather than failing the call.
func datetimeHandler(_ context.Context, args map[string]any) (any, error) {
	loc := time.UTC
	if tz, ok := args["timezone"].(string); ok && tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}
	now := time.Now().In(loc)
	return map[string]any{
		"iso":      now.Format(time.RFC3339),
		"date":     now.Format("2006-01-02"),
		"time":     now.Format("15:04:05"),
		"timezone": loc.String(),
	}, nil
}

func uuidHandler(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{"uuid": uuid.NewString()}, nil
}
