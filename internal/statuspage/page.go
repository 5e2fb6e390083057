// Package statuspage runs the status page update cycle: fetch a batch of
// results, store it, derive the new events and recompute the overall
// status.
package statuspage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuspage/internal/domain"
	"github.com/hamed0406/statuspage/internal/feed"
	"github.com/hamed0406/statuspage/internal/metrics"
	"github.com/hamed0406/statuspage/internal/render"
	"github.com/hamed0406/statuspage/internal/repo"
	"github.com/hamed0406/statuspage/internal/repo/memory"
	"github.com/hamed0406/statuspage/internal/timeline"
)

type Options struct {
	Timeframe  time.Duration // initial history window
	SeedPolicy timeline.SeedPolicy
	Dedup      bool // ignore repeated (endpoint, timestamp) results
}

// Cycle is the outcome of one applied feed response.
type Cycle struct {
	Events     []domain.Event
	Indicator  domain.Indicator
	Stored     int
	Duplicates int
	// Updated is false when the response carried no timeline; nothing was
	// derived and the indicator was not recomputed.
	Updated bool
}

// Page owns the session state. It is not safe for concurrent use: a single
// goroutine (the scheduler) drives it.
type Page struct {
	logger   *zap.Logger
	src      feed.Source
	renderer render.Renderer

	results repo.ResultStore
	events  repo.EventLog
	deriver *timeline.Deriver

	timeframe     time.Duration
	now           func() time.Time
	backendStatus string
	lastCheckTs   int64
	lastStatusTs  int64
	indicator     domain.Indicator
}

func New(logger *zap.Logger, src feed.Source, renderer render.Renderer, opts Options) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = render.Multi{}
	}
	if opts.Timeframe <= 0 {
		opts.Timeframe = 8 * 24 * time.Hour
	}
	events := memory.NewEvents()
	return &Page{
		logger:    logger,
		src:       src,
		renderer:  renderer,
		results:   memory.NewResults(opts.Dedup),
		events:    events,
		deriver:   timeline.NewDeriver(events, timeline.NewTracker(opts.SeedPolicy)),
		timeframe: opts.Timeframe,
		now:       time.Now,
		indicator: domain.IndicatorUnknown,
	}
}

// Load fetches the whole timeframe.
func (p *Page) Load(ctx context.Context) (Cycle, error) {
	start := p.now().Add(-p.timeframe)
	c, err := p.src.ChecksWithin(ctx, start, start)
	if err != nil {
		return Cycle{}, fmt.Errorf("initial load: %w", err)
	}
	return p.Apply(c), nil
}

// Poll fetches the checks newer than the last one received.
func (p *Page) Poll(ctx context.Context) (Cycle, error) {
	c, err := p.src.NewChecks(ctx, p.lastCheckTs, p.timeframe)
	if err != nil {
		return Cycle{}, fmt.Errorf("poll: %w", err)
	}
	return p.Apply(c), nil
}

// Apply runs one update cycle on a feed response.
func (p *Page) Apply(c *domain.Checkup) Cycle {
	p.backendStatus = c.Status
	if c.Timestamp != 0 {
		p.lastStatusTs = int64(c.Timestamp)
	}
	p.renderer.RenderStatus(c)

	if len(c.Timeline) == 0 {
		p.logger.Debug("feed_no_timeline", zap.String("backend_status", c.Status))
		return Cycle{Indicator: p.indicator}
	}

	var cyc Cycle
	p.results.BeginBatch()
	for _, entry := range c.Timeline {
		if entry.Result == nil {
			continue
		}
		if entry.Timestamp > p.lastCheckTs {
			p.lastCheckTs = entry.Timestamp
		}
		if p.results.Append(*entry.Result) {
			cyc.Stored++
		} else {
			cyc.Duplicates++
		}
	}

	cyc.Events = p.deriver.Derive(p.results.Batch())
	p.renderer.RenderEvents(cyc.Events)

	overall := timeline.ComputeOverall(p.results, p.results.Endpoints())
	p.indicator = timeline.Combine(overall, p.backendStatus)
	p.renderer.RenderOverall(p.indicator, p.events.Len())

	cyc.Indicator = p.indicator
	cyc.Updated = true

	metrics.ResultsIngested.Add(float64(cyc.Stored))
	metrics.ResultsDuplicate.Add(float64(cyc.Duplicates))
	metrics.CountEvents(cyc.Events)
	metrics.SetOverall(p.indicator)

	p.logger.Info("cycle_applied",
		zap.Int("stored", cyc.Stored),
		zap.Int("duplicates", cyc.Duplicates),
		zap.Int("events", len(cyc.Events)),
		zap.String("overall", string(overall)),
		zap.String("backend_status", p.backendStatus),
		zap.String("indicator", string(p.indicator)),
	)
	return cyc
}

// RefreshTime updates the "time ago" texts once a status has been seen.
func (p *Page) RefreshTime() {
	if p.lastStatusTs != 0 {
		p.renderer.RefreshTime()
	}
}

func (p *Page) Indicator() domain.Indicator { return p.indicator }

// Events returns the event log in emission order.
func (p *Page) Events() []domain.Event { return p.events.Events() }

// LastCheckTs is the newest timeline timestamp received (ns).
func (p *Page) LastCheckTs() int64 { return p.lastCheckTs }
