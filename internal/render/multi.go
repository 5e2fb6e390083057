package render

import "github.com/hamed0406/statuspage/internal/domain"

// Renderer consumes the per-cycle output of the status page.
type Renderer interface {
	RenderStatus(c *domain.Checkup)
	RenderEvents(events []domain.Event)
	RenderOverall(ind domain.Indicator, eventCount int)
	RefreshTime()
}

// Multi fans every call out to each renderer in order.
type Multi []Renderer

func (m Multi) RenderStatus(c *domain.Checkup) {
	for _, r := range m {
		if r != nil {
			r.RenderStatus(c)
		}
	}
}

func (m Multi) RenderEvents(events []domain.Event) {
	for _, r := range m {
		if r != nil {
			r.RenderEvents(events)
		}
	}
}

func (m Multi) RenderOverall(ind domain.Indicator, eventCount int) {
	for _, r := range m {
		if r != nil {
			r.RenderOverall(ind, eventCount)
		}
	}
}

func (m Multi) RefreshTime() {
	for _, r := range m {
		if r != nil {
			r.RefreshTime()
		}
	}
}
