package trigger

import (
	"sync/atomic"
	"time"
)

// Pending tracks a planned simulation waiting on its trigger conditions.
// It is revocable: a dismissal or navigation away flips the revoked flag and
// the simulation can never fire afterwards, with no side effect beyond the
// dismissed observation the host reports to the progression tracker.
type Pending struct {
	SimulationID string
	Conditions   []Condition
	PlannedAt    time.Time

	revoked atomic.Bool
}

// NewPending wraps a simulation's condition set for evaluation.
func NewPending(simulationID string, conds []Condition, plannedAt time.Time) *Pending {
	return &Pending{
		SimulationID: simulationID,
		Conditions:   conds,
		PlannedAt:    plannedAt,
	}
}

// Revoke permanently cancels the pending simulation. Safe to call more than
// once and from any goroutine.
func (p *Pending) Revoke() {
	p.revoked.Store(true)
}

// Revoked reports whether the pending simulation has been cancelled.
func (p *Pending) Revoked() bool {
	return p.revoked.Load()
}

// Ready reports whether the simulation may fire: not revoked and every
// condition satisfied. The snapshot's Elapsed is derived from PlannedAt when
// unset so hosts can pass raw observations.
func (p *Pending) Ready(e *Evaluator, snap Snapshot, now time.Time) bool {
	if p.Revoked() {
		return false
	}
	if snap.Elapsed == 0 && !p.PlannedAt.IsZero() {
		snap.Elapsed = now.Sub(p.PlannedAt)
	}
	return e.Satisfied(p.Conditions, snap)
}
