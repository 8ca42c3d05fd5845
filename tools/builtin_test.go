package tools_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/petasbytes/go-toolcall/tools"
)

func libraryCatalogAndInvoker(t *testing.T) *tools.Invoker {
	t.Helper()
	catalog := tools.NewCatalog()
	for _, d := range tools.Library() {
		if err := catalog.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	return tools.NewInvoker(catalog, tools.NewHandlerTable(), 0)
}

func TestLibrary_ToolNames(t *testing.T) {
	want := map[string]struct{}{
		"calculator":           {},
		"echo":                 {},
		"get_current_datetime": {},
		"generate_uuid":        {},
	}
	defs := tools.Library()
	if len(defs) != len(want) {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), len(want))
	}
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Fatalf("unexpected tool in library: %q", d.Name)
		}
		if d.Mode != tools.ModeBuiltin {
			t.Fatalf("library tool %q has mode %q, want builtin", d.Name, d.Mode)
		}
		if d.Parameters.Type != "object" || d.Parameters.Properties == nil {
			t.Fatalf("library tool %q missing a generated schema", d.Name)
		}
	}
}

func TestLibrary_CalculatorSchema_RequiresExpression(t *testing.T) {
	for _, d := range tools.Library() {
		if d.Name != "calculator" {
			continue
		}
		if len(d.Parameters.Required) != 1 || d.Parameters.Required[0] != "expression" {
			t.Fatalf("calculator required fields: %v", d.Parameters.Required)
		}
		prop, ok := d.Parameters.Properties["expression"]
		if !ok || prop.Type != "string" {
			t.Fatalf("calculator expression property: %+v", prop)
		}
		return
	}
	t.Fatal("calculator not in library")
}

func TestEchoTool_MirrorsArguments(t *testing.T) {
	inv := libraryCatalogAndInvoker(t)
	res := inv.Execute(context.Background(), "echo", map[string]any{"message": "hi"})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	out, ok := res.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", res.Result)
	}
	echoed, ok := out["echoed"].(map[string]any)
	if !ok || echoed["message"] != "hi" {
		t.Fatalf("arguments not mirrored under echoed: %v", out)
	}
}

func TestDatetimeTool_DefaultsAndFallsBackToUTC(t *testing.T) {
	inv := libraryCatalogAndInvoker(t)

	cases := []struct {
		name string
		args map[string]any
		zone string
	}{
		{"Default", nil, "UTC"},
		{"InvalidZone", map[string]any{"timezone": "Nowhere/Impossible"}, "UTC"},
		{"ValidZone", map[string]any{"timezone": "Europe/London"}, "Europe/London"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := inv.Execute(context.Background(), "get_current_datetime", tc.args)
			if !res.Success {
				t.Fatalf("expected success, got %q", res.Error)
			}
			out, ok := res.Result.(map[string]any)
			if !ok {
				t.Fatalf("expected map result, got %T", res.Result)
			}
			for _, key := range []string{"iso", "date", "time", "timezone"} {
				if _, ok := out[key]; !ok {
					t.Fatalf("missing %q in datetime result: %v", key, out)
				}
			}
			if out["timezone"] != tc.zone {
				t.Fatalf("timezone = %v, want %v", out["timezone"], tc.zone)
			}
		})
	}
}

func TestUUIDTool_V4Format(t *testing.T) {
	inv := libraryCatalogAndInvoker(t)
	res := inv.Execute(context.Background(), "generate_uuid", nil)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	out, ok := res.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", res.Result)
	}
	id, _ := out["uuid"].(string)
	v4 := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !v4.MatchString(id) {
		t.Fatalf("uuid %q is not a v4 UUID", id)
	}

	second := inv.Execute(context.Background(), "generate_uuid", nil)
	if second.Result.(map[string]any)["uuid"] == id {
		t.Fatal("consecutive UUIDs should differ")
	}
}
