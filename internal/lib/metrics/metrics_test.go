package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGate(t *testing.T) {
	before := testutil.ToFloat64(GateOutcomes.WithLabelValues("planner", "allowed"))

	ObserveGate("planner", "allowed")
	ObserveGate("planner", "allowed")

	after := testutil.ToFloat64(GateOutcomes.WithLabelValues("planner", "allowed"))
	assert.Equal(t, before+2, after)
}
