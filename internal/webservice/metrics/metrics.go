// Package metrics instruments the web service and exposes the offline cache
// state to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gompa"

type label string

// LabelPath carries the route pattern used as the "path" label.
const LabelPath label = "path"

// Middleware collects per-handler HTTP request metrics.
type Middleware struct {
	buckets  []float64
	registry prometheus.Registerer
}

func New(registry prometheus.Registerer) *Middleware {
	return &Middleware{
		// Mock endpoints sleep for a fixed delay, so requests cluster
		// between a few ms and a few seconds. Max of 10.24.
		buckets:  prometheus.ExponentialBuckets(0.005, 2, 12),
		registry: registry,
	}
}

// Monitor wraps handler with request count, duration and size metrics, all
// labelled with handlerName.
func (m *Middleware) Monitor(handlerName string, handler http.Handler) http.HandlerFunc {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"handler": handlerName}, m.registry)
	labels := []string{"method", "code", string(LabelPath)}

	requestsTotal := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests.",
		}, labels,
	)
	requestDuration := promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   m.buckets,
		}, labels,
	)
	requestSize := promauto.With(reg).NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "Size of HTTP requests.",
		}, labels,
	)

	withPath := promhttp.WithLabelFromCtx(string(LabelPath), pathLabelFromCtx)
	base := promhttp.InstrumentHandlerCounter(
		requestsTotal,
		promhttp.InstrumentHandlerDuration(
			requestDuration,
			promhttp.InstrumentHandlerRequestSize(requestSize, handler, withPath),
			withPath,
		),
		withPath,
	)

	return func(w http.ResponseWriter, r *http.Request) {
		applyLabels(r)
		base.ServeHTTP(w, r)
	}
}

func pathLabelFromCtx(ctx context.Context) string {
	if path, ok := ctx.Value(LabelPath).(string); ok {
		return path
	}
	return "unknown"
}

// applyLabels records the matched route pattern rather than the raw path,
// so /api/offline/{category} stays a single series.
func applyLabels(r *http.Request) {
	path := r.Pattern
	if path == "" {
		path = r.URL.Path
	}
	*r = *r.WithContext(context.WithValue(r.Context(), LabelPath, path))
}

// RegisterCache exposes the state of m as gauges evaluated at scrape time.
func RegisterCache(reg prometheus.Registerer, m *offline.Manager, now func() time.Time) {
	f := promauto.With(reg)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "offline",
		Name:      "online",
		Help:      "1 when the network is reachable.",
	}, func() float64 { return boolGauge(m.Online()) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "offline",
		Name:      "snapshot_present",
		Help:      "1 when a decodable snapshot is stored.",
	}, func() float64 { return boolGauge(m.HasSnapshot()) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "offline",
		Name:      "snapshot_age_seconds",
		Help:      "Seconds since the last successful populate, -1 without a snapshot.",
	}, func() float64 {
		t, ok := m.LastUpdated()
		if !ok {
			return -1
		}
		return now().Sub(t).Seconds()
	})

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "offline",
		Name:      "populate_progress_percent",
		Help:      "Progress of the current or last populate.",
	}, func() float64 { return float64(m.Status().Progress) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "offline",
		Name:      "downloads",
		Help:      "Number of resources saved for offline use.",
	}, func() float64 { return float64(len(m.Downloads())) })
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
