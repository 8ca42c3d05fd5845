// Package conversation holds per-request conversation state.
//
// Invariants:
//   - Turns strictly append; no reordering or retroactive edits.
//   - Tool-result turns are appended in the same order their corresponding
//     calls were requested, directly after the assistant turn that
//     requested them.
//
// State is created per incoming request and discarded once a response is
// returned; persistence across restarts is out of scope here.
package conversation
