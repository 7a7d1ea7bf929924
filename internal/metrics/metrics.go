// Package metrics exposes Prometheus metrics for argument resolution.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transcodeargs"

var (
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "resolutions_total",
		Help:      "Resolved commands by video and audio branch",
	}, []string{"source", "video_mode", "audio_mode"})

	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "rejections_total",
		Help:      "States rejected before resolution",
	}, []string{"source", "reason"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "resolver",
		Name:      "duration_seconds",
		Help:      "Time spent resolving one command",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"source"})

	statesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "states",
		Name:      "loaded",
		Help:      "Named states currently loaded from the state file",
	})

	profileInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "profile",
		Name:      "info",
		Help:      "Active encoding profile; the value is the CPU count used for thread decisions",
	}, []string{"quality"})
)

// Source labels.
const (
	SourceAPI   = "api"
	SourceState = "state"
)

// Rejection reasons.
const (
	ReasonNotFound = "not_found"
	ReasonInvalid  = "invalid"
)

// ObserveResolution records one successful resolution.
func ObserveResolution(source, videoMode, audioMode string, took time.Duration) {
	resolutions.WithLabelValues(source, videoMode, audioMode).Inc()
	duration.WithLabelValues(source).Observe(took.Seconds())
}

// ObserveRejection records a state that could not be resolved.
func ObserveRejection(source, reason string) {
	failures.WithLabelValues(source, reason).Inc()
}

// SetStatesLoaded records the number of loaded states.
func SetStatesLoaded(n int) {
	statesLoaded.Set(float64(n))
}

// SetProfile records the active profile, replacing the previous one.
func SetProfile(quality string, cpuCount int) {
	profileInfo.Reset()
	profileInfo.WithLabelValues(quality).Set(float64(cpuCount))
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
