package conversation

// GroupKind denotes the atomic unit type when summarising a transcript.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupExchange
)

// Group describes a contiguous span of turns [Start, End) in the original
// slice. An exchange is an assistant tool-request turn together with the
// tool-result turns that answer it.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

// GroupTurns groups a transcript into atomic units that keep each
// tool-request turn together with its results.
// Invariants:
//   - An exchange starts at an assistant turn carrying tool calls.
//   - Every requested call id must appear among the immediately following
//     tool turns, in request order; otherwise the turns fall back to
//     singletons.
func GroupTurns(turns []Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		t := turns[i]
		if t.Role == RoleAssistant && len(t.ToolCalls) > 0 {
			end := i + 1
			for end < len(turns) && turns[end].Role == RoleTool {
				end++
			}
			if resultsCoverRequests(t.ToolCalls, turns[i+1:end]) {
				groups = append(groups, Group{Kind: GroupExchange, Start: i, End: end})
				i = end
				continue
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// resultsCoverRequests reports whether the tool turns answer every
// requested call id in the order the calls were made.
func resultsCoverRequests(calls []ToolCall, results []Turn) bool {
	if len(results) != len(calls) {
		return false
	}
	for i, call := range calls {
		if results[i].ToolCallID != call.ID {
			return false
		}
	}
	return true
}
