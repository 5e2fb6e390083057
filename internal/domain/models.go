package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Event is a timeline entry derived from a result: either a status change
// or a posted message.
type Event struct {
	ID      int64   `json:"id"`
	Result  *Result `json:"result"`
	Status  Status  `json:"status"`
	Message string  `json:"message,omitempty"`
}

// IsMessage reports whether the event carries an operator message.
func (e Event) IsMessage() bool { return e.Message != "" }

// Indicator is the system-wide verdict shown in the banner.
type Indicator string

const (
	IndicatorHealthy  Indicator = "healthy"
	IndicatorDegraded Indicator = "degraded"
	IndicatorDown     Indicator = "down"
	IndicatorUnknown  Indicator = "unknown"
)

// Backend status strings reported by the checkup API.
const (
	BackendOK       = "OK"
	BackendDegraded = "DEGRADED"
)

// Stats mirrors the checkup API statistics block. The API encodes it with
// Go field names, so there are no json tags.
type Stats struct {
	FirstTimestamp, LastTimestamp          int64
	ItemsCount                             int
	HealthyCount, DegradedCount, DownCount int
	HealthyPC, DegradedPC, DownPC          float64
}

// TimelineEntry is one item of the checkup API timeline.
type TimelineEntry struct {
	Result      *Result
	StateChange bool
	Timestamp   int64
}

// Checkup is the payload of GET /api/v1/checkup.
type Checkup struct {
	Status      string          `json:"status"`
	LastResults []Result        `json:"last_results"`
	Stats       Stats           `json:"stats"`
	Timeline    []TimelineEntry `json:"timeline"`
	Timestamp   NanoTime        `json:"timestamp"`
}

// NanoTime is a ns timestamp that the API sends as a decimal string.
type NanoTime int64

func (n *NanoTime) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", b, err)
	}
	*n = NanoTime(v)
	return nil
}

func (n NanoTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(n), 10))), nil
}
