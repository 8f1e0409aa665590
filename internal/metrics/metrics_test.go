package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementMembersRegistered()
	m.IncrementMembersRegistered()
	m.IncrementMembersDeleted()
	m.AddDependants("child", "created", 3)
	m.AddDependants("child", "deleted", 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.MembersRegistered))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.MembersUpdated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MembersDeleted))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.DependantsReconciled.WithLabelValues("child", "created")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DependantsReconciled))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest(http.MethodGet, http.StatusOK, time.Now())

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `memberreg_http_requests_total{method="GET",status="200"} 1`)
}
