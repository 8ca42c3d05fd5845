// Package telemetry emits optional JSONL event records for offline
// inspection of tool-calling runs: loop_iteration, tool_exec, and
// probe_run events, each stamped with the event name and time.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	envFlag   = "TOOLCALL_OBSERVE_JSON"
	eventDir  = ".toolcall"
	eventFile = "events.jsonl"
)

type ctxKey int

const conversationKey ctxKey = iota

// WithConversationID tags the context with the id that correlates every
// event emitted for one request.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversationKey, id)
}

// ConversationID returns the id stored by WithConversationID, or the empty
// string when the context carries none.
func ConversationID(ctx context.Context) string {
	id, _ := ctx.Value(conversationKey).(string)
	return id
}

// Enabled reports whether JSONL emission is switched on via
// TOOLCALL_OBSERVE_JSON=1.
func Enabled() bool {
	return os.Getenv(envFlag) == "1"
}

// Emit appends one event line to .toolcall/events.jsonl carrying the given
// fields plus the event name and an RFC3339Nano timestamp. The caller's map
// is never mutated. Failures are reported on stderr and otherwise dropped;
// observation must never fail a request.
func Emit(name string, fields map[string]any) {
	if !Enabled() {
		return
	}

	record := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		record[k] = v
	}
	record["event"] = name
	record["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	line, err := json.Marshal(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal %s: %v\n", name, err)
		return
	}
	if err := appendLine(line); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
	}
}

func appendLine(line []byte) error {
	if err := os.MkdirAll(eventDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", eventDir, err)
	}
	path := filepath.Join(eventDir, eventFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
