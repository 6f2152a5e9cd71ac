package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	alertsReceived    *prometheus.CounterVec
	incidentsOpened   prometheus.Counter
	crisesResolved    prometheus.Counter
	radiusDevices     prometheus.Histogram
	radiusSubscribers prometheus.Histogram
	httpRequests      *prometheus.CounterVec
	httpDurations     *prometheus.HistogramVec
}

// NewMetrics registers collectors against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		alertsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outage_alerts_total",
			Help: "Device-down alerts received, labeled by handling result.",
		}, []string{"result"}),
		incidentsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outage_incidents_opened_total",
			Help: "Crisis event / ticket pairs created.",
		}),
		crisesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outage_crises_resolved_total",
			Help: "Crisis events resolved by operators.",
		}),
		radiusDevices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outage_blast_radius_devices",
			Help:    "Number of devices inside resolved blast radii.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		radiusSubscribers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outage_blast_radius_subscribers",
			Help:    "Number of subscribers inside resolved blast radii.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Handled HTTP requests, labeled by path, method and status.",
		}, []string{"path", "method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"path", "method"}),
	}

	reg.MustRegister(
		m.alertsReceived,
		m.incidentsOpened,
		m.crisesResolved,
		m.radiusDevices,
		m.radiusSubscribers,
		m.httpRequests,
		m.httpDurations,
	)
	return m
}

// RecordAlert counts one device-down alert by its handling result.
func (m *Metrics) RecordAlert(result string) {
	if m == nil {
		return
	}
	m.alertsReceived.WithLabelValues(result).Inc()
}

// RecordIncidentOpened counts one created crisis event / ticket pair.
func (m *Metrics) RecordIncidentOpened() {
	if m == nil {
		return
	}
	m.incidentsOpened.Inc()
}

// RecordCrisisResolved counts one operator resolution.
func (m *Metrics) RecordCrisisResolved() {
	if m == nil {
		return
	}
	m.crisesResolved.Inc()
}

// ObserveRadius records the size of a resolved blast radius.
func (m *Metrics) ObserveRadius(devices, subscribers int) {
	if m == nil {
		return
	}
	m.radiusDevices.Observe(float64(devices))
	m.radiusSubscribers.Observe(float64(subscribers))
}

// RecordRequest counts one handled HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(path, method).Observe(duration.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
