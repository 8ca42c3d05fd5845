package conversation_test

import (
	"testing"

	"github.com/petasbytes/go-toolcall/conversation"
	"github.com/petasbytes/go-toolcall/tools"
)

func TestNewState_SeedsSystemThenUser(t *testing.T) {
	s := conversation.NewState("be helpful", "what time is it?")
	if len(s.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(s.Turns))
	}
	if s.Turns[0].Role != conversation.RoleSystem || s.Turns[1].Role != conversation.RoleUser {
		t.Fatalf("unexpected roles: %s, %s", s.Turns[0].Role, s.Turns[1].Role)
	}

	noSystem := conversation.NewState("", "hi")
	if len(noSystem.Turns) != 1 || noSystem.Turns[0].Role != conversation.RoleUser {
		t.Fatalf("empty system prompt should be omitted: %+v", noSystem.Turns)
	}
}

func TestState_ToolExchangeOrdering(t *testing.T) {
	s := conversation.NewState("", "weather in London and Paris")
	calls := []conversation.ToolCall{
		{ID: "call_0", Type: "function", Function: conversation.FunctionCall{Name: "get_weather", Arguments: `{"city":"London"}`}},
		{ID: "call_1", Type: "function", Function: conversation.FunctionCall{Name: "get_weather", Arguments: `{"city":"Paris"}`}},
	}
	s.AppendAssistantRequest("", calls)
	s.AppendToolResult("call_0", "get_weather", `{"success":true,"result":"sunny"}`)
	s.AppendToolResult("call_1", "get_weather", `{"success":true,"result":"rainy"}`)

	want := []string{
		conversation.RoleUser,
		conversation.RoleAssistant,
		conversation.RoleTool,
		conversation.RoleTool,
	}
	if len(s.Turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(s.Turns))
	}
	for i, role := range want {
		if s.Turns[i].Role != role {
			t.Fatalf("turn %d: role %s, want %s", i, s.Turns[i].Role, role)
		}
	}
	if s.Turns[2].ToolCallID != "call_0" || s.Turns[3].ToolCallID != "call_1" {
		t.Fatal("tool results out of request order")
	}
}

func TestState_AppendAssistantRequest_CopiesCalls(t *testing.T) {
	s := conversation.NewState("", "hi")
	calls := []conversation.ToolCall{
		{ID: "call_0", Type: "function", Function: conversation.FunctionCall{Name: "echo", Arguments: "{}"}},
	}
	s.AppendAssistantRequest("", calls)
	calls[0].ID = "mutated"
	if s.Turns[1].ToolCalls[0].ID != "call_0" {
		t.Fatal("stored tool calls alias the caller's slice")
	}
}

func TestState_Log(t *testing.T) {
	s := conversation.NewState("", "hi")
	s.Log(conversation.ToolCallRecord{
		ToolName:  "calculator",
		Args:      map[string]any{"expression": "2+2"},
		Result:    tools.Result{ToolName: "calculator", Success: true, Result: 4.0},
		Iteration: 1,
	})
	s.Log(conversation.ToolCallRecord{
		ToolName:  "calculator",
		Args:      map[string]any{"expression": "1/0"},
		Result:    tools.Result{ToolName: "calculator", Success: false, Error: "division by zero"},
		Iteration: 2,
	})
	if len(s.ToolCallLog) != 2 {
		t.Fatalf("expected 2 records, got %d", len(s.ToolCallLog))
	}
	if s.ToolCallLog[0].Iteration != 1 || s.ToolCallLog[1].Iteration != 2 {
		t.Fatal("log lost iteration ordering")
	}
}
