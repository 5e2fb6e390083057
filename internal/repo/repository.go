package repo

import "github.com/hamed0406/statuspage/internal/domain"

// Ports (interfaces) consumed by the timeline core.

// ResultStore holds every result received during the session, in arrival
// order and grouped by endpoint. It owns the canonical copy of each result.
type ResultStore interface {
	// BeginBatch marks the current end of the ordered sequence; results
	// appended afterwards form the new batch.
	BeginBatch()
	// Append stores r and reports whether it was kept (false for a rejected
	// duplicate).
	Append(r domain.Result) bool
	// Batch returns the suffix appended since the last BeginBatch.
	Batch() []*domain.Result
	CountSinceLastBatch() int
	LatestFor(endpoint string) (*domain.Result, bool)
	// Endpoints lists endpoints in first-seen order.
	Endpoints() []string
	Len() int
}

// EventLog is the append-only list of derived events.
type EventLog interface {
	Append(events ...domain.Event)
	Events() []domain.Event
	Len() int
	// EndpointCount is the number of distinct endpoints with at least one event.
	EndpointCount() int
}
