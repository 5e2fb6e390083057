// Package timeline turns the accumulated result stream into timeline events
// and computes the overall status of the monitored system.
package timeline

import (
	"github.com/hamed0406/statuspage/internal/domain"
)

// SeedPolicy decides what status a never-seen endpoint is compared against.
type SeedPolicy int

const (
	// SeedAbsent compares a new endpoint against StatusNone, so its first
	// result always produces a status-change event.
	SeedAbsent SeedPolicy = iota
	// SeedHealthy treats a new endpoint as healthy; a first healthy result
	// produces no status-change event.
	SeedHealthy
)

// Tracker keeps the last derived status of each endpoint.
type Tracker struct {
	policy   SeedPolicy
	statuses map[string]domain.Status
	built    bool
}

func NewTracker(policy SeedPolicy) *Tracker {
	return &Tracker{policy: policy, statuses: make(map[string]domain.Status)}
}

// Reconstruct rebuilds the mapping from the event log: walking from the
// newest event backwards, the first status seen for an endpoint wins.
func (t *Tracker) Reconstruct(events []domain.Event, endpoints int) {
	statuses := make(map[string]domain.Status, endpoints)
	for i := len(events) - 1; i >= 0; i-- {
		if endpoints > 0 && len(statuses) == endpoints {
			break
		}
		r := events[i].Result
		if r == nil {
			continue
		}
		if _, ok := statuses[r.Endpoint]; !ok {
			statuses[r.Endpoint] = events[i].Status
		}
	}
	t.statuses = statuses
	t.built = true
}

// Built reports whether Reconstruct has run.
func (t *Tracker) Built() bool { return t.built }

func (t *Tracker) StatusOf(endpoint string) domain.Status {
	if s, ok := t.statuses[endpoint]; ok {
		return s
	}
	if t.policy == SeedHealthy {
		return domain.StatusHealthy
	}
	return domain.StatusNone
}

func (t *Tracker) Set(endpoint string, s domain.Status) {
	t.statuses[endpoint] = s
}

// Snapshot copies the current mapping.
func (t *Tracker) Snapshot() map[string]domain.Status {
	out := make(map[string]domain.Status, len(t.statuses))
	for k, v := range t.statuses {
		out[k] = v
	}
	return out
}
