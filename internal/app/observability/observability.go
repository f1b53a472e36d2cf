package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector logs every request and keeps Prometheus metrics on its own
// registry.
type Collector struct {
	log      *zap.Logger
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	scores   *prometheus.CounterVec
}

func NewCollector(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		log:      log,
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medicquiz",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "path", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medicquiz",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		scores: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medicquiz",
			Name:      "score_requests_total",
			Help:      "Scoring calls by outcome",
		}, []string{"outcome"}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		path := normalizedPath(r.URL.Path)
		status := strconv.Itoa(rec.status)

		c.requests.WithLabelValues(r.Method, path, status).Inc()
		c.latency.WithLabelValues(r.Method, path, status).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", rec.status),
			zap.Float64("latency_ms", float64(elapsed.Microseconds())/1000.0),
			zap.String("remote_ip", strings.TrimSpace(r.RemoteAddr)),
		}
		if n := extractTestNumber(r.URL.Path); n > 0 {
			fields = append(fields, zap.Int("test", n))
		}
		c.log.Info("http request", fields...)
	})
}

// RecordScore counts one scoring call.
func (c *Collector) RecordScore(outcome string) {
	c.scores.WithLabelValues(outcome).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func normalizedPath(path string) string {
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
			continue
		}
		if strings.HasSuffix(p, ".jpg") {
			if _, err := strconv.ParseInt(strings.TrimSuffix(p, ".jpg"), 10, 64); err == nil {
				parts[i] = "{id}.jpg"
			}
		}
	}
	return strings.Join(parts, "/")
}

func extractTestNumber(path string) int {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "tests" {
			if n, err := strconv.Atoi(parts[i+1]); err == nil {
				return n
			}
		}
	}
	return 0
}
