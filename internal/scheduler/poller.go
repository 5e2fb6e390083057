package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuspage/internal/metrics"
	"github.com/hamed0406/statuspage/internal/statuspage"
)

// Cycler is the status page as seen by the poll loop.
type Cycler interface {
	Load(ctx context.Context) (statuspage.Cycle, error)
	Poll(ctx context.Context) (statuspage.Cycle, error)
	RefreshTime()
}

// Poller drives the page from a single goroutine: one initial load, then a
// poll every Interval and a display refresh every Refresh. Polls never
// overlap since they all run on the loop goroutine.
type Poller struct {
	Logger   *zap.Logger
	Page     Cycler
	Alerter  *Alerter
	Interval time.Duration
	Refresh  time.Duration

	force chan struct{}
}

func NewPoller(
	logger *zap.Logger,
	page Cycler,
	alerter *Alerter,
	interval time.Duration,
	refresh time.Duration,
) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	if refresh <= 0 {
		refresh = 5 * time.Second
	}
	return &Poller{
		Logger:   logger,
		Page:     page,
		Alerter:  alerter,
		Interval: interval,
		Refresh:  refresh,
		force:    make(chan struct{}, 1),
	}
}

// Trigger asks the loop for an extra poll. It returns false when a request
// is already pending.
func (p *Poller) Trigger() bool {
	select {
	case p.force <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	poll := time.NewTicker(p.Interval)
	defer poll.Stop()
	refresh := time.NewTicker(p.Refresh)
	defer refresh.Stop()

	// initial load
	p.runOnce(ctx, true)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("poller_stopped")
			return
		case <-poll.C:
			p.runOnce(ctx, false)
		case <-p.force:
			p.runOnce(ctx, false)
		case <-refresh.C:
			p.Page.RefreshTime()
		}
	}
}

func (p *Poller) runOnce(ctx context.Context, initial bool) {
	start := time.Now()
	defer func() { metrics.PollDuration.Observe(time.Since(start).Seconds()) }()

	var (
		cyc statuspage.Cycle
		err error
	)
	if initial {
		cyc, err = p.Page.Load(ctx)
	} else {
		cyc, err = p.Page.Poll(ctx)
	}
	if err != nil {
		// next tick retries at the normal interval
		metrics.PollsTotal.WithLabelValues("error").Inc()
		p.Logger.Warn("poll_failed", zap.Bool("initial", initial), zap.Error(err))
		return
	}
	if !cyc.Updated {
		metrics.PollsTotal.WithLabelValues("empty").Inc()
		return
	}
	metrics.PollsTotal.WithLabelValues("ok").Inc()

	if p.Alerter != nil {
		p.Alerter.Observe(ctx, cyc.Indicator)
	}
}
