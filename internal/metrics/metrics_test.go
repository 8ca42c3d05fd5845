package metrics_test

import (
	"testing"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/internal/metrics"
	"github.com/petasbytes/go-toolcall/tools"
)

func TestCountFeatures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want metrics.Features
	}{
		{"Empty", "", metrics.Features{}},
		{"SingleLine", "hello world", metrics.Features{Bytes: 11, Runes: 11, Words: 2, Lines: 1}},
		{"MultiLine", "a\nb\nc", metrics.Features{Bytes: 5, Runes: 5, Words: 3, Lines: 3}},
		{"MultiByte", "héllo", metrics.Features{Bytes: 6, Runes: 5, Words: 1, Lines: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := metrics.CountFeatures(tc.in); got != tc.want {
				t.Fatalf("CountFeatures(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSummarizeCalls(t *testing.T) {
	log := []conversation.ToolCallRecord{
		{ToolName: "calculator", Result: tools.Result{Success: true}, ElapsedMillis: 3},
		{ToolName: "calculator", Result: tools.Result{Success: false, Error: "division by zero"}, ElapsedMillis: 1},
		{ToolName: "echo", Result: tools.Result{Success: true}, ElapsedMillis: 2},
	}

	stats := metrics.SummarizeCalls(log)
	if stats.Calls != 3 || stats.Failures != 1 {
		t.Fatalf("unexpected aggregates: %+v", stats)
	}
	if stats.TotalElapsedMillis != 6 {
		t.Fatalf("elapsed = %d, want 6", stats.TotalElapsedMillis)
	}
	if stats.ByTool["calculator"] != 2 || stats.ByTool["echo"] != 1 {
		t.Fatalf("per-tool counts: %v", stats.ByTool)
	}
}

func TestSummarizeCalls_EmptyLog(t *testing.T) {
	stats := metrics.SummarizeCalls(nil)
	if stats.Calls != 0 || stats.ByTool != nil {
		t.Fatalf("empty log should produce zero stats: %+v", stats)
	}
}
