package timeline

import (
	"github.com/hamed0406/statuspage/internal/domain"
	"github.com/hamed0406/statuspage/internal/repo"
)

// Deriver produces events for newly stored results.
type Deriver struct {
	log     repo.EventLog
	tracker *Tracker
	nextID  int64
}

func NewDeriver(log repo.EventLog, tracker *Tracker) *Deriver {
	return &Deriver{log: log, tracker: tracker, nextID: 1}
}

// Derive walks results in order and returns the events they produce.
// The events are appended to the event log before returning. Results must
// be the newly stored batch only: feeding old results again duplicates
// events.
func (d *Deriver) Derive(results []*domain.Result) []domain.Event {
	if !d.tracker.Built() {
		d.tracker.Reconstruct(d.log.Events(), d.log.EndpointCount())
	}

	var out []domain.Event
	for _, r := range results {
		status := r.Status()

		if status != d.tracker.StatusOf(r.Endpoint) {
			out = append(out, domain.Event{ID: d.id(), Result: r, Status: status})
		}
		if r.Message != "" {
			out = append(out, domain.Event{ID: d.id(), Result: r, Status: status, Message: r.Message})
		}

		d.tracker.Set(r.Endpoint, status)
	}

	if len(out) > 0 {
		d.log.Append(out...)
	}
	return out
}

func (d *Deriver) id() int64 {
	id := d.nextID
	d.nextID++
	return id
}
