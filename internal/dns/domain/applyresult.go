package domain

import (
	"fmt"
	"time"
)

// Outcome is the terminal state of an apply operation.
type Outcome uint8

const (
	OutcomeApplied Outcome = iota
	OutcomePartiallyApplied
	OutcomeFailed
)

// String returns the textual representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomePartiallyApplied:
		return "partially-applied"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(o))
	}
}

// StepOutcome records the result of applying one protocol family.
// Intent is the desired resolver list (empty meaning automatic);
// Observed is the list seen on re-query during verification.
type StepOutcome struct {
	Family   Family
	Intent   []string
	Applied  bool
	Err      string
	Observed []string
}

// ApplyResult is the full outcome of one apply or reset operation:
// per-protocol step results, non-fatal warnings (cache flush, DoH
// binding), and the resolved terminal state.
type ApplyResult struct {
	Profile     string
	InterfaceID string
	Outcome     Outcome
	Steps       []StepOutcome
	Warnings    []string
	CompletedAt time.Time
}

// ResolveOutcome derives the terminal state from per-step results:
// applied when every step matched intent, failed when none did,
// partially applied otherwise.
func ResolveOutcome(steps []StepOutcome) Outcome {
	applied := 0
	for _, s := range steps {
		if s.Applied {
			applied++
		}
	}
	switch {
	case len(steps) == 0 || applied == len(steps):
		return OutcomeApplied
	case applied == 0:
		return OutcomeFailed
	default:
		return OutcomePartiallyApplied
	}
}
