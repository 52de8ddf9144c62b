package trigger

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// safeModules are the only tengo stdlib modules available to scripted gates.
// No file I/O, no network, no OS access.
var safeModules = stdlib.GetModuleMap("text", "math", "times")

// scriptMaxAllocs bounds VM allocations for a single gate expression.
const scriptMaxAllocs = 1_000_000

// Evaluator evaluates condition sets against behavior snapshots. Scripted
// conditions are compiled once and cached per expression.
type Evaluator struct {
	logger *slog.Logger

	mu      sync.Mutex
	scripts map[string]*tengo.Compiled
}

// NewEvaluator creates an Evaluator. A nil logger falls back to slog.Default.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		logger:  logger,
		scripts: make(map[string]*tengo.Compiled),
	}
}

// Satisfied reports whether every condition in conds holds for snap.
// An empty condition set is satisfied (red-team plans may carry none).
// Malformed conditions evaluate as unsatisfied, never as an error.
func (e *Evaluator) Satisfied(conds []Condition, snap Snapshot) bool {
	for _, c := range conds {
		if !e.holds(c, snap) {
			return false
		}
	}
	return true
}

func (e *Evaluator) holds(c Condition, snap Snapshot) bool {
	switch c.Kind {
	case KindTimeElapsed:
		want, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			e.logger.Debug("trigger: unparseable time_elapsed value", "value", c.Value)
			return false
		}
		return compareInt(snap.Elapsed.Milliseconds(), want, c.Comparison)
	case KindPageVisible:
		return compareBool(snap.PageVisible, c.Value)
	case KindPageFocused:
		return compareBool(snap.PageFocused, c.Value)
	case KindFormInteraction:
		want, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			e.logger.Debug("trigger: unparseable form_interaction value", "value", c.Value)
			return false
		}
		return compareInt(int64(snap.FormInteractions), want, c.Comparison)
	case KindScript:
		return e.runScript(c.Value, snap)
	default:
		e.logger.Debug("trigger: unknown condition kind", "kind", string(c.Kind))
		return false
	}
}

func compareInt(got, want int64, cmp Comparison) bool {
	switch cmp {
	case ComparisonAtLeast:
		return got >= want
	case ComparisonAtMost:
		return got <= want
	case ComparisonEquals:
		return got == want
	default:
		return false
	}
}

func compareBool(got bool, want string) bool {
	return strconv.FormatBool(got) == want
}

// runScript evaluates a sandboxed tengo expression against the snapshot.
// The expression sees elapsed_ms, visible, focused, form_interactions,
// keystrokes, and pointer_moves, and must produce a truthy result.
func (e *Evaluator) runScript(expr string, snap Snapshot) bool {
	compiled, err := e.compile(expr)
	if err != nil {
		e.logger.Warn("trigger: script condition failed to compile", "error", err)
		return false
	}

	// Clone so concurrent evaluations of the same expression don't share
	// VM state.
	run := compiled.Clone()
	vars := map[string]any{
		"elapsed_ms":        snap.Elapsed.Milliseconds(),
		"visible":           snap.PageVisible,
		"focused":           snap.PageFocused,
		"form_interactions": snap.FormInteractions,
		"keystrokes":        snap.KeystrokeCount,
		"pointer_moves":     snap.PointerMoves,
	}
	for name, v := range vars {
		if err := run.Set(name, v); err != nil {
			e.logger.Warn("trigger: script variable rejected", "name", name, "error", err)
			return false
		}
	}
	if err := run.Run(); err != nil {
		e.logger.Warn("trigger: script condition failed to run", "error", err)
		return false
	}
	return run.Get("ok").Bool()
}

func (e *Evaluator) compile(expr string) (*tengo.Compiled, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if compiled, ok := e.scripts[expr]; ok {
		return compiled, nil
	}

	src := fmt.Sprintf("ok := (%s)", expr)
	script := tengo.NewScript([]byte(src))
	script.SetImports(safeModules)
	script.SetMaxAllocs(scriptMaxAllocs)

	// Declare snapshot variables so the expression can reference them;
	// real values are Set per evaluation.
	seed := map[string]any{
		"elapsed_ms":        int64(0),
		"visible":           false,
		"focused":           false,
		"form_interactions": 0,
		"keystrokes":        0,
		"pointer_moves":     0,
	}
	for name, v := range seed {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("declare %s: %w", name, err)
		}
	}

	compiled, err := script.Run()
	if err != nil {
		return nil, fmt.Errorf("compile trigger script: %w", err)
	}
	e.scripts[expr] = compiled
	return compiled, nil
}
