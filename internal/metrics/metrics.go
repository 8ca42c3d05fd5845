// Package metrics derives small local measurements for probe traces:
// text features of model output and aggregates over a tool call log.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/petasbytes/go-toolcall/conversation"
)

// Features holds basic text features derived from model output.
type Features struct {
	Bytes int `json:"bytes"`
	Runes int `json:"runes"`
	Words int `json:"words"`
	Lines int `json:"lines"`
}

// CountFeatures computes byte, rune, word, and line counts for the input.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of
// '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// CallStats aggregates a tool call log.
type CallStats struct {
	Calls              int            `json:"calls"`
	Failures           int            `json:"failures"`
	TotalElapsedMillis int64          `json:"totalElapsedMillis"`
	ByTool             map[string]int `json:"byTool,omitempty"`
}

// SummarizeCalls folds a tool call log into per-run aggregates.
func SummarizeCalls(log []conversation.ToolCallRecord) CallStats {
	stats := CallStats{}
	if len(log) == 0 {
		return stats
	}
	stats.ByTool = map[string]int{}
	for _, rec := range log {
		stats.Calls++
		stats.ByTool[rec.ToolName]++
		stats.TotalElapsedMillis += rec.ElapsedMillis
		if !rec.Result.Success {
			stats.Failures++
		}
	}
	return stats
}
