// Package notifications evaluates every push subscription against its
// owner's local time, quiet hours and mute, sends hydration reminders to the
// eligible ones and prunes endpoints the push service reports gone.
//
// Pipeline: load subscriptions → fan out (bounded) → decide per subscription
// {skip-muted, skip-quiet, send} → classify the push result {sent, pruned,
// errored} → join and summarize.
package notifications

import (
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	reminderTTL        = 24 * time.Hour
	defaultDrinkAmount = 250 // ml logged by the "I Drank It" action
	defaultWorkers     = 8
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Kind is the terminal state of one subscription in one dispatch run.
type Kind string

const (
	KindSkippedMuted Kind = "skipped_muted"
	KindSkippedQuiet Kind = "skipped_quiet"
	KindSent         Kind = "sent"
	KindPruned       Kind = "pruned"
	KindErrored      Kind = "errored"
)

// Outcome records how a single subscription was handled.
type Outcome struct {
	SubscriptionID string `json:"subscriptionId"`
	UserID         string `json:"userId"`
	TimeZone       string `json:"timeZone"`
	LocalHour      int    `json:"localHour"`
	Kind           Kind   `json:"kind"`
	Error          string `json:"error,omitempty"`
}

// Result summarizes a dispatch run.
type Result struct {
	Considered int           `json:"considered"`
	Sent       int           `json:"sent"`
	Forced     bool          `json:"forced"`
	Outcomes   []Outcome     `json:"outcomes"`
	Duration   time.Duration `json:"-"`
}

// Count returns how many outcomes ended in kind k.
func (r *Result) Count(k Kind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("considered=%d sent=%d muted=%d quiet=%d pruned=%d errored=%d forced=%v dur=%s",
		r.Considered, r.Sent, r.Count(KindSkippedMuted), r.Count(KindSkippedQuiet),
		r.Count(KindPruned), r.Count(KindErrored), r.Forced, r.Duration.Round(time.Millisecond))
}
