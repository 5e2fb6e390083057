package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/statuspage/internal/domain"
)

func TestSetOverall_OneHot(t *testing.T) {
	SetOverall(domain.IndicatorDown)
	assert.Equal(t, 1.0, testutil.ToFloat64(OverallStatus.WithLabelValues("down")))
	assert.Equal(t, 0.0, testutil.ToFloat64(OverallStatus.WithLabelValues("healthy")))

	SetOverall(domain.IndicatorHealthy)
	assert.Equal(t, 0.0, testutil.ToFloat64(OverallStatus.WithLabelValues("down")))
	assert.Equal(t, 1.0, testutil.ToFloat64(OverallStatus.WithLabelValues("healthy")))
}

func TestCountEvents_ByKind(t *testing.T) {
	change := EventsDerived.WithLabelValues("change")
	message := EventsDerived.WithLabelValues("message")
	c0, m0 := testutil.ToFloat64(change), testutil.ToFloat64(message)

	CountEvents([]domain.Event{{ID: 1}, {ID: 2, Message: "m"}, {ID: 3}})

	assert.Equal(t, c0+2, testutil.ToFloat64(change))
	assert.Equal(t, m0+1, testutil.ToFloat64(message))
}
