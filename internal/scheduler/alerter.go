package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/statuspage/internal/domain"
	"github.com/hamed0406/statuspage/internal/metrics"
)

// notifyState remembers the worst level already notified since the last
// recovery.
type notifyState int

const (
	notifiedNone notifyState = iota
	notifiedDegraded
	notifiedDown
)

// Alerter sends one notification per degradation of the overall status.
// It is driven by the poll loop and is not safe for concurrent use.
type Alerter struct {
	logger   *zap.Logger
	notifier interface {
		Send(context.Context, string, string) error
	}
	title string
	state notifyState
}

func NewAlerter(
	logger *zap.Logger,
	notifier interface {
		Send(context.Context, string, string) error
	},
	title string,
) *Alerter {
	if title == "" {
		title = "Status page"
	}
	return &Alerter{logger: logger, notifier: notifier, title: title}
}

// Observe records the indicator of the latest cycle and notifies when it
// worsened past what was already notified. A healthy indicator re-arms both
// levels; unknown changes nothing.
func (a *Alerter) Observe(ctx context.Context, ind domain.Indicator) bool {
	switch ind {
	case domain.IndicatorHealthy:
		a.state = notifiedNone
	case domain.IndicatorDown:
		if a.state < notifiedDown {
			a.state = notifiedDown
			a.send(ctx, "down", "Unreachable target(s)!")
			return true
		}
	case domain.IndicatorDegraded:
		if a.state < notifiedDegraded {
			a.state = notifiedDegraded
			a.send(ctx, "degraded", "Degraded system")
			return true
		}
	}
	return false
}

// Best-effort: a failed send still counts as notified.
func (a *Alerter) send(ctx context.Context, level, text string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Send(ctx, a.title, text); err != nil {
		metrics.NotificationsSent.WithLabelValues(level, "error").Inc()
		a.logger.Warn("notify_failed", zap.String("level", level), zap.Error(err))
		return
	}
	metrics.NotificationsSent.WithLabelValues(level, "ok").Inc()
	a.logger.Info("notified", zap.String("level", level))
}
