package conversation

import (
	"github.com/petasbytes/go-toolcall/tools"
)

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// FunctionCall names a tool and carries its serialized arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is the canonical requested-call shape every provider adapter
// produces: a correlation id plus a function call with JSON-string
// arguments.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // "function"
	Function FunctionCall `json:"function"`
}

// Turn is one entry in the ordered conversation.
type Turn struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCallRecord is one entry in the per-request tool call log.
type ToolCallRecord struct {
	ToolName      string         `json:"toolName"`
	Args          map[string]any `json:"args"`
	Result        tools.Result   `json:"result"`
	Iteration     int            `json:"iteration"`
	ElapsedMillis int64          `json:"elapsedMillis"`
}

// State is the mutable per-request conversation.
type State struct {
	Turns          []Turn
	IterationCount int
	ToolCallLog    []ToolCallRecord
	Terminal       bool
}

// NewState seeds a conversation with optional system and user turns.
func NewState(system, user string) *State {
	s := &State{}
	if system != "" {
		s.Turns = append(s.Turns, Turn{Role: RoleSystem, Content: system})
	}
	if user != "" {
		s.Turns = append(s.Turns, Turn{Role: RoleUser, Content: user})
	}
	return s
}

// Append adds one turn at the end of the conversation.
func (s *State) Append(t Turn) {
	s.Turns = append(s.Turns, t)
}

// AppendAssistantRequest records the assistant turn that requested the
// given tool calls.
func (s *State) AppendAssistantRequest(content string, calls []ToolCall) {
	s.Turns = append(s.Turns, Turn{
		Role:      RoleAssistant,
		Content:   content,
		ToolCalls: append([]ToolCall(nil), calls...),
	})
}

// AppendToolResult records one tool-result turn carrying the correlation id
// and the serialized result or error payload.
func (s *State) AppendToolResult(callID, toolName, payload string) {
	s.Turns = append(s.Turns, Turn{
		Role:       RoleTool,
		Name:       toolName,
		ToolCallID: callID,
		Content:    payload,
	})
}

// Log appends one record to the tool call log.
func (s *State) Log(rec ToolCallRecord) {
	s.ToolCallLog = append(s.ToolCallLog, rec)
}
