package memory

import (
	"github.com/hamed0406/statuspage/internal/domain"
)

type resultKey struct {
	endpoint  string
	timestamp int64
}

// Results is the in-memory result store. It is not safe for concurrent use;
// the poll loop is its only owner.
type Results struct {
	ordered    []*domain.Result
	byEndpoint map[string][]*domain.Result
	endpoints  []string
	batchStart int

	dedup bool
	seen  map[resultKey]struct{}
}

// NewResults returns an empty store. With dedup set, a result whose
// (endpoint, timestamp) pair was already stored is ignored.
func NewResults(dedup bool) *Results {
	return &Results{
		ordered:    make([]*domain.Result, 0, 128),
		byEndpoint: make(map[string][]*domain.Result),
		dedup:      dedup,
		seen:       make(map[resultKey]struct{}),
	}
}

func (m *Results) BeginBatch() {
	m.batchStart = len(m.ordered)
}

func (m *Results) Append(r domain.Result) bool {
	if m.dedup {
		k := resultKey{endpoint: r.Endpoint, timestamp: r.Timestamp}
		if _, dup := m.seen[k]; dup {
			return false
		}
		m.seen[k] = struct{}{}
	}
	cp := r
	if _, ok := m.byEndpoint[r.Endpoint]; !ok {
		m.endpoints = append(m.endpoints, r.Endpoint)
	}
	m.ordered = append(m.ordered, &cp)
	m.byEndpoint[r.Endpoint] = append(m.byEndpoint[r.Endpoint], &cp)
	return true
}

func (m *Results) Batch() []*domain.Result {
	return m.ordered[m.batchStart:]
}

func (m *Results) CountSinceLastBatch() int {
	return len(m.ordered) - m.batchStart
}

func (m *Results) LatestFor(endpoint string) (*domain.Result, bool) {
	rs := m.byEndpoint[endpoint]
	if len(rs) == 0 {
		return nil, false
	}
	return rs[len(rs)-1], true
}

func (m *Results) Endpoints() []string {
	out := make([]string, len(m.endpoints))
	copy(out, m.endpoints)
	return out
}

func (m *Results) Len() int { return len(m.ordered) }

// Events is the in-memory event log.
type Events struct {
	events    []domain.Event
	endpoints map[string]struct{}
}

func NewEvents() *Events {
	return &Events{endpoints: make(map[string]struct{})}
}

func (e *Events) Append(events ...domain.Event) {
	for _, ev := range events {
		if ev.Result != nil {
			e.endpoints[ev.Result.Endpoint] = struct{}{}
		}
	}
	e.events = append(e.events, events...)
}

// Events returns the log in emission order. The slice must not be modified.
func (e *Events) Events() []domain.Event { return e.events }

func (e *Events) Len() int { return len(e.events) }

func (e *Events) EndpointCount() int { return len(e.endpoints) }
