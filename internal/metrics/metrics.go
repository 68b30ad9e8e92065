// Package metrics exposes capture outcomes as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smazurov/snapcam/internal/events"
)

const namespace = "snapcam"

var (
	capturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "total",
		Help:      "Finished capture invocations by kind and status",
	}, []string{"kind", "status"})

	captureDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "duration_seconds",
		Help:      "Wall time of capture invocations",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 7.5, 10, 15, 30},
	}, []string{"kind"})

	captureFrames = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "last_frames",
		Help:      "Frames read from the device by the last successful invocation",
	}, []string{"kind"})

	videoFPS = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "video",
		Name:      "last_fps",
		Help:      "Measured frame rate of the last recorded clip",
	})

	capturesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "started_total",
		Help:      "Capture invocations that opened the device",
	}, []string{"kind"})

	accessDenied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "access_denied_total",
		Help:      "Commands ignored because the user is not allowed",
	})

	allowedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "allowed_users",
		Help:      "Size of the current allow-list",
	})
)

// RecordStarted counts an invocation that began.
func RecordStarted(kind string) {
	capturesStarted.WithLabelValues(kind).Inc()
}

// RecordSuccess records a finished capture.
func RecordSuccess(kind string, frames int, fps, seconds float64) {
	capturesTotal.WithLabelValues(kind, "ok").Inc()
	captureDuration.WithLabelValues(kind).Observe(seconds)
	captureFrames.WithLabelValues(kind).Set(float64(frames))
	if fps > 0 {
		videoFPS.Set(fps)
	}
}

// RecordError records a failed capture. status is a capture.Status name.
func RecordError(kind, status string, seconds float64) {
	capturesTotal.WithLabelValues(kind, status).Inc()
	captureDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordAccessDenied counts an ignored command.
func RecordAccessDenied() {
	accessDenied.Inc()
}

// SetAllowedUsers sets the allow-list size.
func SetAllowedUsers(n int) {
	allowedUsers.Set(float64(n))
}

// Subscribe keeps the metrics in step with events published on bus.
// It returns a function that removes the subscriptions.
func Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.CaptureStartedEvent) {
			RecordStarted(e.Kind)
		}),
		bus.Subscribe(func(e events.CaptureSuccessEvent) {
			RecordSuccess(e.Kind, e.Frames, e.FPS, e.Duration)
		}),
		bus.Subscribe(func(e events.CaptureErrorEvent) {
			RecordError(e.Kind, e.Status, e.Duration)
		}),
		bus.Subscribe(func(events.AccessDeniedEvent) {
			RecordAccessDenied()
		}),
		bus.Subscribe(func(e events.AllowListReloadedEvent) {
			SetAllowedUsers(e.Users)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Handler returns the Prometheus exposition handler for all promauto
// registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
