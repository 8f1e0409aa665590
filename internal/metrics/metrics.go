package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the member registry.
type Metrics struct {
	MembersRegistered    prometheus.Counter
	MembersUpdated       prometheus.Counter
	MembersDeleted       prometheus.Counter
	DependantsReconciled *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MembersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "memberreg_members_registered_total",
			Help: "Total number of members registered",
		}),
		MembersUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "memberreg_members_updated_total",
			Help: "Total number of member records updated",
		}),
		MembersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "memberreg_members_deleted_total",
			Help: "Total number of member records deleted",
		}),
		DependantsReconciled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "memberreg_dependants_reconciled_total",
			Help: "Dependant rows written while updating members, by kind and operation",
		}, []string{"kind", "operation"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "memberreg_http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		}, []string{"method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memberreg_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method"}),
		gatherer: reg,
	}
}

func (m *Metrics) IncrementMembersRegistered() {
	m.MembersRegistered.Inc()
}

func (m *Metrics) IncrementMembersUpdated() {
	m.MembersUpdated.Inc()
}

func (m *Metrics) IncrementMembersDeleted() {
	m.MembersDeleted.Inc()
}

// AddDependants records n dependant rows of kind ("child" or "parent") that were
// created, updated or deleted in one reconciliation.
func (m *Metrics) AddDependants(kind, operation string, n int) {
	if n == 0 {
		return
	}
	m.DependantsReconciled.WithLabelValues(kind, operation).Add(float64(n))
}

// ObserveRequest records one served request. Call with time.Now() taken before serving it.
func (m *Metrics) ObserveRequest(method string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
