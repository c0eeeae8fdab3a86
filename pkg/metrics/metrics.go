package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics собирает HTTP и доменные метрики в собственном реестре.
// Все методы безопасны для nil-получателя, чтобы сервисы можно было создавать без метрик.
type Metrics struct {
	registry       *prometheus.Registry
	httpReqCnt     *prometheus.CounterVec
	httpDur        *prometheus.HistogramVec
	httpInfl       *prometheus.GaugeVec
	reportsCreated *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	mediaUploads   *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	reportsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "disaster_reports_created_total"}, []string{"type", "severity"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "disaster_status_transitions_total"}, []string{"from", "to"})
	mediaUploads := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "media_uploads_total"}, []string{"content_type"})
	r.MustRegister(reportsCreated, transitions, mediaUploads)

	return &Metrics{
		registry:       r,
		httpReqCnt:     httpReqCnt,
		httpDur:        httpDur,
		httpInfl:       httpInfl,
		reportsCreated: reportsCreated,
		transitions:    transitions,
		mediaUploads:   mediaUploads,
	}
}

func (m *Metrics) ReportCreated(disasterType, severity string) {
	if m == nil {
		return
	}
	m.reportsCreated.WithLabelValues(disasterType, severity).Inc()
}

func (m *Metrics) StatusChanged(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) MediaUploaded(contentType string) {
	if m == nil {
		return
	}
	m.mediaUploads.WithLabelValues(contentType).Inc()
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		inflight := m.httpInfl.WithLabelValues(route)
		inflight.Inc()
		defer inflight.Dec()

		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
