package timeline

import (
	"github.com/hamed0406/statuspage/internal/domain"
)

// LatestReader is the part of the result store the aggregator needs.
type LatestReader interface {
	LatestFor(endpoint string) (*domain.Result, bool)
}

// ComputeOverall scans the latest result of each endpoint. A down endpoint
// ends the scan; degraded keeps scanning since a later endpoint may be down.
// Endpoints without results are ignored.
func ComputeOverall(store LatestReader, endpoints []string) domain.Status {
	overall := domain.StatusHealthy
	for _, ep := range endpoints {
		last, ok := store.LatestFor(ep)
		if !ok {
			continue
		}
		if last.Down {
			return domain.StatusDown
		}
		if last.Degraded {
			overall = domain.StatusDegraded
		}
	}
	return overall
}

// Combine merges the endpoint verdict with the status string reported by
// the backend. The backend string can only worsen the verdict; a healthy
// verdict without an "OK" from the backend is unknown.
func Combine(overall domain.Status, backend string) domain.Indicator {
	switch {
	case overall == domain.StatusHealthy && backend == domain.BackendOK:
		return domain.IndicatorHealthy
	case overall == domain.StatusDown:
		return domain.IndicatorDown
	case overall == domain.StatusDegraded || backend == domain.BackendDegraded:
		return domain.IndicatorDegraded
	default:
		return domain.IndicatorUnknown
	}
}
