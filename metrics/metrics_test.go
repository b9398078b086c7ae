package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(bookingCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCreated))

	IncBookingRejected("conflict")
	IncBookingRejected("conflict")
	assert.GreaterOrEqual(t, testutil.ToFloat64(bookingRejected.WithLabelValues("conflict")), 2.0)

	IncModerationDecision("APPROVED")
	assert.GreaterOrEqual(t, testutil.ToFloat64(moderationDecision.WithLabelValues("APPROVED")), 1.0)
}
