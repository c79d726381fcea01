package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})
	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// RouteOther labels every request a RouteFunc does not recognise.
const RouteOther = "other"

// RouteFunc maps a request to a low-cardinality route label.
type RouteFunc func(*http.Request) string

// AccessLog records one log line and the request metrics per call. Without a
// RouteFunc all requests share the RouteOther label.
func AccessLog(log *zap.Logger, route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = func(*http.Request) string { return RouteOther }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			elapsed := time.Since(start)
			rt := route(r)
			if rt == "" {
				rt = RouteOther
			}
			httpRequests.WithLabelValues(r.Method, rt, strconv.Itoa(rec.status)).Inc()
			httpLatency.WithLabelValues(r.Method, rt).Observe(elapsed.Seconds())

			l := WithTrace(r.Context(), log)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("elapsed", elapsed),
			}
			switch {
			case rec.status >= 500:
				l.Error("http request", fields...)
			case rec.status >= 400:
				l.Info("http request", fields...)
			default:
				l.Debug("http request", fields...)
			}
		})
	}
}
