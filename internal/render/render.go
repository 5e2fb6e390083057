// Package render keeps the visual state of the status page: the event
// timeline (newest first), the banner and the info panel.
package render

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hamed0406/statuspage/internal/domain"
)

// StatusText holds the banner text per indicator.
type StatusText struct {
	Healthy  string
	Degraded string
	Down     string
	Unknown  string
}

// DefaultStatusText is used for any entry left empty.
var DefaultStatusText = StatusText{
	Healthy:  "System Nominal",
	Degraded: "Sub-Optimal",
	Down:     "Outage",
	Unknown:  "Status Unknown",
}

func (s StatusText) text(ind domain.Indicator) string {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	switch ind {
	case domain.IndicatorHealthy:
		return pick(s.Healthy, DefaultStatusText.Healthy)
	case domain.IndicatorDegraded:
		return pick(s.Degraded, DefaultStatusText.Degraded)
	case domain.IndicatorDown:
		return pick(s.Down, DefaultStatusText.Down)
	default:
		return pick(s.Unknown, DefaultStatusText.Unknown)
	}
}

// Color maps a status or indicator to its CSS colour class.
func Color(s string) string {
	switch s {
	case string(domain.StatusHealthy):
		return "green"
	case string(domain.StatusDegraded):
		return "yellow"
	case string(domain.StatusDown):
		return "red"
	default:
		return "gray"
	}
}

// Block is one rendered timeline entry.
type Block struct {
	EventID   int64         `json:"event_id"`
	Classes   []string      `json:"classes"`
	Status    domain.Status `json:"status"`
	Title     string        `json:"title"`
	Endpoint  string        `json:"endpoint"`
	Timestamp int64         `json:"timestamp"`
	// Status-change blocks.
	Time string `json:"time,omitempty"`
	// Message blocks.
	Ago     string `json:"ago,omitempty"`
	Message string `json:"message,omitempty"`
}

// IsMessage reports whether the block uses the annotation style.
func (b Block) IsMessage() bool { return b.Message != "" }

// NewBlock renders one event.
func NewBlock(e domain.Event, now time.Time) Block {
	b := Block{
		EventID: e.ID,
		Classes: []string{"event-item", "event-id-" + strconv.FormatInt(e.ID, 10), Color(string(e.Status))},
		Status:  e.Status,
	}
	at := time.Unix(0, 0)
	if e.Result != nil {
		b.Title = e.Result.Title
		b.Endpoint = e.Result.Endpoint
		b.Timestamp = e.Result.Timestamp
		at = e.Result.Time()
	}
	if e.IsMessage() {
		b.Classes = append(b.Classes, "message")
		b.Message = e.Message
		b.Ago = humanize.RelTime(at, now, "ago", "from now")
	} else {
		b.Classes = append(b.Classes, "event")
		b.Time = FormatTime(at)
	}
	return b
}

// FormatTime renders t as "2006-01-02 15:04" in local time.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// FormatDuration renders a timeframe such as "8 days" or "1 day, 6 hours".
func FormatDuration(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case days > 0 && hours > 0:
		return plural(days, "day") + ", " + plural(hours, "hour")
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return plural(minutes, "minute")
	}
}

// Target is one row of the last-results table.
type Target struct {
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Class    string `json:"class,omitempty"`
}

func newTarget(r domain.Result) Target {
	t := Target{Title: r.Title, Endpoint: r.Endpoint, Status: r.DisplayStatus()}
	switch t.Status {
	case "UP":
		t.Class = "healthy"
	case "DOWN", "DEGRADED":
		t.Class = "alert"
	}
	return t
}

// Banner is the overall status header.
type Banner struct {
	Indicator domain.Indicator `json:"indicator"`
	Class     string           `json:"class"`
	Favicon   string           `json:"favicon"`
	Text      string           `json:"text"`
}

// View is a consistent copy of the page state.
type View struct {
	Banner       Banner   `json:"banner"`
	Availability string   `json:"availability"`
	Timeframe    string   `json:"timeframe"`
	CheckCount   int      `json:"check_count"`
	LastCheck    string   `json:"last_check"`
	Targets      []Target `json:"targets"`
	Events       []Block  `json:"events"`
}

// Timeline is the page renderer. It is safe for concurrent use: the poll
// loop writes, HTTP handlers read.
type Timeline struct {
	mu   sync.RWMutex
	text StatusText
	now  func() time.Time

	blocks       []Block // newest first
	seen         map[int64]struct{}
	banner       Banner
	availability string
	timeframe    string
	checkCount   int
	lastStatusTs int64
	lastCheck    string
	targets      []Target
}

func NewTimeline(text StatusText, timeframe time.Duration) *Timeline {
	t := &Timeline{
		text:      text,
		now:       time.Now,
		seen:      make(map[int64]struct{}),
		timeframe: FormatDuration(timeframe),
	}
	t.banner = t.bannerFor(domain.IndicatorUnknown)
	return t
}

func (t *Timeline) bannerFor(ind domain.Indicator) Banner {
	c := Color(string(ind))
	return Banner{
		Indicator: ind,
		Class:     c,
		Favicon:   "images/status-" + c + ".png",
		Text:      t.text.text(ind),
	}
}

// RenderEvents prepends one block per event, oldest first in, so the newest
// ends up on top. Events rendered in an earlier cycle are skipped.
func (t *Timeline) RenderEvents(events []domain.Event) {
	if len(events) == 0 {
		return
	}
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	fresh := make([]Block, 0, len(events))
	for _, e := range events {
		if _, done := t.seen[e.ID]; done {
			continue
		}
		t.seen[e.ID] = struct{}{}
		fresh = append(fresh, NewBlock(e, now))
	}
	// reverse so the latest event leads
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	t.blocks = append(fresh, t.blocks...)
}

// RenderStatus applies the snapshot part of a feed response.
func (t *Timeline) RenderStatus(c *domain.Checkup) {
	targets := make([]Target, 0, len(c.LastResults))
	for _, r := range c.LastResults {
		targets = append(targets, newTarget(r))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = targets
	t.availability = fmt.Sprintf("%.3f %%", c.Stats.HealthyPC)
	if c.Timestamp != 0 {
		t.lastStatusTs = int64(c.Timestamp)
	}
	t.refreshLocked()
}

// RenderOverall updates the banner and the checks-observed counter.
func (t *Timeline) RenderOverall(ind domain.Indicator, eventCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.banner = t.bannerFor(ind)
	t.checkCount = eventCount
}

// RefreshTime recomputes every "time ago" text.
func (t *Timeline) RefreshTime() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked()
}

func (t *Timeline) refreshLocked() {
	now := t.now()
	if t.lastStatusTs != 0 {
		t.lastCheck = humanize.RelTime(time.Unix(0, t.lastStatusTs), now, "ago", "from now")
	}
	for i := range t.blocks {
		if t.blocks[i].IsMessage() {
			t.blocks[i].Ago = humanize.RelTime(time.Unix(0, t.blocks[i].Timestamp), now, "ago", "from now")
		}
	}
}

// View copies the current state. Events newer than after are included;
// after <= 0 returns the whole timeline.
func (t *Timeline) View(after int64) View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var blocks []Block
	for _, b := range t.blocks {
		if after > 0 && b.EventID <= after {
			break
		}
		blocks = append(blocks, b)
	}
	targets := make([]Target, len(t.targets))
	copy(targets, t.targets)

	return View{
		Banner:       t.banner,
		Availability: t.availability,
		Timeframe:    t.timeframe,
		CheckCount:   t.checkCount,
		LastCheck:    t.lastCheck,
		Targets:      targets,
		Events:       blocks,
	}
}
