// Package capability tracks per-model tool-calling test outcomes and
// derives a validated/unvalidated status from a rolling success ratio.
package capability

import (
	"sync"
)

// Status of a model's tool-calling capability.
type Status string

const (
	StatusValidated   Status = "validated"
	StatusUnvalidated Status = "unvalidated"
)

// Defaults applied when constructor arguments are zero.
const (
	DefaultWindow     = 10
	DefaultThreshold  = 0.8
	DefaultMinSamples = 5
)

// Tracker records per-model outcomes. Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	window     int
	threshold  float64
	minSamples int
	outcomes   map[string][]bool
}

func NewTracker(window int, threshold float64, minSamples int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	return &Tracker{
		window:     window,
		threshold:  threshold,
		minSamples: minSamples,
		outcomes:   map[string][]bool{},
	}
}

// Record appends one test outcome for the model, keeping only the rolling
// window of most recent results.
func (t *Tracker) Record(model string, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	history := append(t.outcomes[model], success)
	if len(history) > t.window {
		history = history[len(history)-t.window:]
	}
	t.outcomes[model] = history
}

// Ratio returns the success ratio over the rolling window and the sample
// count it was computed from.
func (t *Tracker) Ratio(model string) (float64, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	history := t.outcomes[model]
	if len(history) == 0 {
		return 0, 0
	}
	successes := 0
	for _, ok := range history {
		if ok {
			successes++
		}
	}
	return float64(successes) / float64(len(history)), len(history)
}

// Status reports validated once enough samples exist and the rolling
// success ratio meets the threshold.
func (t *Tracker) Status(model string) Status {
	ratio, samples := t.Ratio(model)
	if samples >= t.minSamples && ratio >= t.threshold {
		return StatusValidated
	}
	return StatusUnvalidated
}
