package tools_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/go-toolcall/tools"
)

func newTestInvoker(t *testing.T, descriptors ...tools.Descriptor) (*tools.Invoker, *tools.HandlerTable) {
	t.Helper()
	catalog := tools.NewCatalog()
	for _, d := range descriptors {
		if err := catalog.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	handlers := tools.NewHandlerTable()
	return tools.NewInvoker(catalog, handlers, 0), handlers
}

func TestInvoker_UnknownTool_ResolvesNotFound(t *testing.T) {
	inv, _ := newTestInvoker(t)
	res := inv.Execute(context.Background(), "nope", nil)
	if res.Success {
		t.Fatal("expected failure for unknown tool")
	}
	if !regexp.MustCompile(`not found`).MatchString(res.Error) {
		t.Fatalf("error %q does not match /not found/", res.Error)
	}
	if res.ToolName != "nope" || res.ElapsedMillis < 0 {
		t.Fatalf("malformed envelope: %+v", res)
	}
}

func TestInvoker_MissingRequiredArgument_NamesField(t *testing.T) {
	inv, _ := newTestInvoker(t, weatherDescriptor())
	res := inv.Execute(context.Background(), "get_weather", map[string]any{})
	if res.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(res.Error, `"city"`) {
		t.Fatalf("error %q does not quote the missing field", res.Error)
	}
}

func TestInvoker_NilArguments_TreatedAsEmpty(t *testing.T) {
	echo := tools.Descriptor{
		Name:        "echo",
		Description: "Echo arguments.",
		Parameters:  tools.Schema{Type: "object", Properties: map[string]tools.Property{}},
		Mode:        tools.ModeBuiltin,
		Handler:     tools.HandlerEcho,
	}
	inv, _ := newTestInvoker(t, echo)
	res := inv.Execute(context.Background(), "echo", nil)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
}

func TestInvoker_TypeValidation(t *testing.T) {
	d := tools.Descriptor{
		Name:        "typed",
		Description: "Type checks.",
		Parameters: tools.Schema{
			Type: "object",
			Properties: map[string]tools.Property{
				"s": {Type: "string"},
				"n": {Type: "number"},
				"i": {Type: "integer"},
				"b": {Type: "boolean"},
				"o": {Type: "object"},
				"a": {Type: "array"},
			},
		},
		Mode:         tools.ModeMock,
		MockResponse: "ok",
	}
	inv, _ := newTestInvoker(t, d)

	cases := []struct {
		name string
		args map[string]any
		ok   bool
	}{
		{"AllValid", map[string]any{"s": "x", "n": 1.5, "i": 3.0, "b": true, "o": map[string]any{}, "a": []any{}}, true},
		{"StringAsNumber", map[string]any{"n": "1.5"}, false},
		{"FractionalInteger", map[string]any{"i": 3.5}, false},
		{"WholeFloatInteger", map[string]any{"i": 4.0}, true},
		{"BoolAsString", map[string]any{"s": true}, false},
		{"ArrayAsObject", map[string]any{"o": []any{}}, false},
		{"ExtraFieldIgnored", map[string]any{"unknown": 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := inv.Execute(context.Background(), "typed", tc.args)
			if res.Success != tc.ok {
				t.Fatalf("got success=%v want %v (error=%q)", res.Success, tc.ok, res.Error)
			}
		})
	}
}

func TestInvoker_EnumValidation_ListsAllowedValues(t *testing.T) {
	d := tools.Descriptor{
		Name:        "units",
		Description: "Enum check.",
		Parameters: tools.Schema{
			Type: "object",
			Properties: map[string]tools.Property{
				"unit": {Type: "string", Enum: []any{"celsius", "fahrenheit"}},
			},
		},
		Mode:         tools.ModeMock,
		MockResponse: "ok",
	}
	inv, _ := newTestInvoker(t, d)

	res := inv.Execute(context.Background(), "units", map[string]any{"unit": "kelvin"})
	if res.Success {
		t.Fatal("expected enum failure")
	}
	if !strings.Contains(res.Error, "celsius") || !strings.Contains(res.Error, "fahrenheit") {
		t.Fatalf("error %q does not list the allowed values", res.Error)
	}

	ok := inv.Execute(context.Background(), "units", map[string]any{"unit": "celsius"})
	if !ok.Success {
		t.Fatalf("expected success, got %q", ok.Error)
	}
}

func TestInvoker_Mock_ReturnsResponseVerbatim(t *testing.T) {
	inv, _ := newTestInvoker(t, weatherDescriptor())
	res := inv.Execute(context.Background(), "get_weather", map[string]any{"city": "London"})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	payload, ok := res.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", res.Result)
	}
	if payload["temperature"] != 20.0 || payload["conditions"] != "Sunny" {
		t.Fatalf("mock response not returned verbatim: %v", payload)
	}
}

func TestInvoker_MissingHandler_ModeSpecificMessages(t *testing.T) {
	builtin := tools.Descriptor{
		Name:        "ghost_builtin",
		Description: "Handler missing.",
		Parameters:  tools.Schema{Type: "object", Properties: map[string]tools.Property{}},
		Mode:        tools.ModeBuiltin,
		Handler:     "does_not_exist",
	}
	internal := builtin
	internal.Name = "ghost_internal"
	internal.Mode = tools.ModeInternal

	inv, _ := newTestInvoker(t, builtin, internal)

	res := inv.Execute(context.Background(), "ghost_builtin", nil)
	if res.Success || !regexp.MustCompile(`No builtin handler`).MatchString(res.Error) {
		t.Fatalf("unexpected builtin envelope: %+v", res)
	}
	res = inv.Execute(context.Background(), "ghost_internal", nil)
	if res.Success || !regexp.MustCompile(`No internal handler`).MatchString(res.Error) {
		t.Fatalf("unexpected internal envelope: %+v", res)
	}
}

func TestInvoker_Calculator_ScenarioResult(t *testing.T) {
	calculator := tools.Descriptor{
		Name:        "calculator",
		Description: "Evaluate arithmetic.",
		Parameters: tools.Schema{
			Type: "object",
			Properties: map[string]tools.Property{
				"expression": {Type: "string"},
			},
			Required: []string{"expression"},
		},
		Mode:    tools.ModeBuiltin,
		Handler: tools.HandlerMathEval,
	}
	inv, _ := newTestInvoker(t, calculator)

	res := inv.Execute(context.Background(), "calculator", map[string]any{"expression": "3 + 4 * 2"})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if got, ok := res.Result.(float64); !ok || got != 11 {
		t.Fatalf("expected 11, got %v (%T)", res.Result, res.Result)
	}
}

func TestInvoker_HandlerError_BecomesEnvelope(t *testing.T) {
	d := tools.Descriptor{
		Name:        "flaky",
		Description: "Always errors.",
		Parameters:  tools.Schema{Type: "object", Properties: map[string]tools.Property{}},
		Mode:        tools.ModeInternal,
		Handler:     "flaky_handler",
	}
	inv, handlers := newTestInvoker(t, d)
	if err := handlers.Register("flaky_handler", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("backend unavailable")
	}); err != nil {
		t.Fatalf("register handler: %v", err)
	}

	res := inv.Execute(context.Background(), "flaky", nil)
	if res.Success || res.Error != "backend unavailable" {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestInvoker_HandlerPanic_BecomesEnvelope(t *testing.T) {
	d := tools.Descriptor{
		Name:        "panicky",
		Description: "Panics.",
		Parameters:  tools.Schema{Type: "object", Properties: map[string]tools.Property{}},
		Mode:        tools.ModeInternal,
		Handler:     "panicky_handler",
	}
	inv, handlers := newTestInvoker(t, d)
	if err := handlers.Register("panicky_handler", func(context.Context, map[string]any) (any, error) {
		panic("boom")
	}); err != nil {
		t.Fatalf("register handler: %v", err)
	}

	res := inv.Execute(context.Background(), "panicky", nil)
	if res.Success || !strings.Contains(res.Error, "boom") {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestInvoker_HandlerTimeout_BecomesEnvelope(t *testing.T) {
	d := tools.Descriptor{
		Name:        "slow",
		Description: "Sleeps past the timeout.",
		Parameters:  tools.Schema{Type: "object", Properties: map[string]tools.Property{}},
		Mode:        tools.ModeInternal,
		Handler:     "slow_handler",
	}
	catalog := tools.NewCatalog()
	if err := catalog.Register(d); err != nil {
		t.Fatalf("register: %v", err)
	}
	handlers := tools.NewHandlerTable()
	if err := handlers.Register("slow_handler", func(ctx context.Context, _ map[string]any) (any, error) {
		select {
		case <-time.After(5 * time.Second):
			return "done", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	inv := tools.NewInvoker(catalog, handlers, 20*time.Millisecond)

	res := inv.Execute(context.Background(), "slow", nil)
	if res.Success || !strings.Contains(res.Error, "timed out") {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestHandlerTable_RegisterNil_NamesRegistration(t *testing.T) {
	handlers := tools.NewHandlerTable()
	err := handlers.Register("bad_handler", nil)
	if err == nil || !strings.Contains(err.Error(), "bad_handler") {
		t.Fatalf("expected error naming the registration, got %v", err)
	}
}
