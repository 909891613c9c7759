package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveAssignmentAction(t *testing.T) {
	before := testutil.ToFloat64(assignmentActions.WithLabelValues("approve", "ok"))
	ObserveAssignmentAction("approve", "ok")
	require.Equal(t, before+1, testutil.ToFloat64(assignmentActions.WithLabelValues("approve", "ok")))
}

func TestResultClass(t *testing.T) {
	require.Equal(t, "2xx", ResultClass(201))
	require.Equal(t, "4xx", ResultClass(409))
	require.Equal(t, "5xx", ResultClass(503))
}

func TestParseHeaders(t *testing.T) {
	require.Nil(t, parseHeaders(""))
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, parseHeaders("a=1, b=2, bad, =x"))
}
