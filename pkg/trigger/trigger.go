// Package trigger models the gates that must be satisfied before a planned
// simulation is shown, and evaluates them against live behavior snapshots.
// Every simulation carries at minimum one temporal gate and one
// activation-event gate; red-team operators may attach scripted gates.
package trigger

import (
	"strconv"
	"time"
)

// Kind identifies the signal a condition gates on.
type Kind string

const (
	// KindTimeElapsed gates on time since the simulation was planned.
	KindTimeElapsed Kind = "time_elapsed"

	// KindPageVisible gates on the page becoming visible.
	KindPageVisible Kind = "page_visible"

	// KindPageFocused gates on the page holding input focus.
	KindPageFocused Kind = "page_focused"

	// KindFormInteraction gates on a minimum count of form interactions.
	KindFormInteraction Kind = "form_interaction"

	// KindScript gates on an operator-supplied sandboxed expression.
	// Red-team plans only; the randomized training path never emits it.
	KindScript Kind = "script"
)

// Comparison selects how a condition's value is compared to the observed
// signal.
type Comparison string

const (
	ComparisonAtLeast Comparison = "at_least"
	ComparisonAtMost  Comparison = "at_most"
	ComparisonEquals  Comparison = "equals"
)

// Condition is a single {kind, value, comparison} gate. Value is a string so
// conditions survive the collaborator message boundary unchanged; numeric
// kinds parse it on evaluation.
type Condition struct {
	Kind       Kind       `json:"kind" yaml:"kind"`
	Value      string     `json:"value" yaml:"value"`
	Comparison Comparison `json:"comparison" yaml:"comparison"`
}

// Temporal returns the standard time gate: at least delay must have passed
// since the simulation was planned.
func Temporal(delay time.Duration) Condition {
	return Condition{
		Kind:       KindTimeElapsed,
		Value:      strconv.FormatInt(delay.Milliseconds(), 10),
		Comparison: ComparisonAtLeast,
	}
}

// Activation returns the standard activation-event gate: the page must be
// visible before the simulation fires.
func Activation() Condition {
	return Condition{
		Kind:       KindPageVisible,
		Value:      "true",
		Comparison: ComparisonEquals,
	}
}

// Scripted returns an operator-defined gate over the behavior snapshot.
// The expression is compiled lazily by the Evaluator; invalid expressions
// evaluate as unsatisfied rather than failing the simulation.
func Scripted(expr string) Condition {
	return Condition{
		Kind:       KindScript,
		Value:      expr,
		Comparison: ComparisonEquals,
	}
}

// Snapshot carries the observed page/behavior signals a condition set is
// evaluated against. Collaborators populate it from the live page.
type Snapshot struct {
	Elapsed          time.Duration
	PageVisible      bool
	PageFocused      bool
	FormInteractions int
	KeystrokeCount   int
	PointerMoves     int
}
