package domain

import "time"

// Status is the derived state of an endpoint at one check.
type Status string

const (
	// StatusNone means no status is known yet for an endpoint. It never
	// compares equal to a real status.
	StatusNone     Status = ""
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Attempt is one round trip of a check.
type Attempt struct {
	RTT   time.Duration `json:"rtt,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Result is one check of one endpoint as published by the checkup API.
// The endpoint string doubles as the target URL.
type Result struct {
	Title     string    `json:"title,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"` // ns since epoch
	Times     []Attempt `json:"times,omitempty"`
	Threshold int64     `json:"threshold,omitempty"`
	Healthy   bool      `json:"healthy,omitempty"`
	Degraded  bool      `json:"degraded,omitempty"`
	Down      bool      `json:"down,omitempty"`
	Notice    string    `json:"notice,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Time converts the result timestamp.
func (r Result) Time() time.Time { return time.Unix(0, r.Timestamp) }

// Status resolves the flags into a timeline status. Degraded wins over down
// when both are set; a result with no flag at all counts as healthy.
func (r Result) Status() Status {
	switch {
	case r.Degraded:
		return StatusDegraded
	case r.Down:
		return StatusDown
	default:
		return StatusHealthy
	}
}

// DisplayStatus is the label shown in the last-results table.
func (r Result) DisplayStatus() string {
	switch {
	case r.Healthy:
		return "UP"
	case r.Down:
		return "DOWN"
	case r.Degraded:
		return "DEGRADED"
	default:
		return "Unknown"
	}
}
