// Package metrics provides Prometheus instrumentation for the launch
// monitor pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop and discard reason labels. Filter drops are per-reading; discards
// are whole buffers rejected at flush.
const (
	DropSpeed     = "speed"
	DropDirection = "direction"
	DropMagnitude = "magnitude"

	DiscardTooFewReadings = "too_few_readings"
	DiscardDuration       = "duration"
)

// customRegistry keeps the default Go runtime collectors out of the export.
var customRegistry = prometheus.NewRegistry()

var (
	readingsAccepted prometheus.Counter
	readingsDropped  *prometheus.CounterVec
	shotsEmitted     prometheus.Counter
	shotsDiscarded   *prometheus.CounterVec
	clubsDetected    prometheus.Counter
	sinkDeliveries   prometheus.Counter
	sinkFailures     prometheus.Counter
	sinkQueueDrops   prometheus.Counter
	sourceReadErrors prometheus.Counter
	bufferSize       prometheus.Gauge
	ballSpeedMPH     prometheus.Histogram
)

func init() {
	auto := promauto.With(customRegistry)

	readingsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "readings_accepted_total",
		Help:      "Radar readings that passed the acceptance filter",
	})
	readingsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "readings_dropped_total",
		Help:      "Radar readings dropped by the acceptance filter, by failing check",
	}, []string{"reason"})
	shotsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "shots_emitted_total",
		Help:      "Completed shots emitted by the segmentation engine",
	})
	shotsDiscarded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "shots_discarded_total",
		Help:      "Buffers discarded at flush without emitting a shot, by reason",
	}, []string{"reason"})
	clubsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "club_detections_total",
		Help:      "Shots for which a plausible club speed was detected",
	})
	sinkDeliveries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "sim",
		Name:      "deliveries_total",
		Help:      "Shots delivered to the simulator sink",
	})
	sinkFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "sim",
		Name:      "delivery_failures_total",
		Help:      "Shot deliveries that failed (connection or write errors)",
	})
	sinkQueueDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "sim",
		Name:      "queue_drops_total",
		Help:      "Shots dropped because the delivery queue was full",
	})
	sourceReadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "openlaunch",
		Subsystem: "radar",
		Name:      "read_errors_total",
		Help:      "Transient errors reading from the radar source",
	})
	bufferSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "buffer_readings",
		Help:      "Readings buffered for the in-progress shot",
	})
	ballSpeedMPH = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "openlaunch",
		Subsystem: "monitor",
		Name:      "ball_speed_mph",
		Help:      "Ball speed of emitted shots in mph",
		Buckets:   []float64{40, 60, 80, 100, 120, 140, 160, 180, 200, 220},
	})
}

// RecordReadingAccepted increments the accepted readings counter.
func RecordReadingAccepted() { readingsAccepted.Inc() }

// RecordReadingDropped increments the drop counter for the failing check.
func RecordReadingDropped(reason string) { readingsDropped.WithLabelValues(reason).Inc() }

// RecordShotEmitted records an emitted shot and its ball speed.
func RecordShotEmitted(ballSpeed float64) {
	shotsEmitted.Inc()
	ballSpeedMPH.Observe(ballSpeed)
}

// RecordShotDiscarded increments the discard counter for the given reason.
func RecordShotDiscarded(reason string) { shotsDiscarded.WithLabelValues(reason).Inc() }

// RecordClubDetected increments the club detection counter.
func RecordClubDetected() { clubsDetected.Inc() }

// RecordSinkDelivery increments the sink delivery counter.
func RecordSinkDelivery() { sinkDeliveries.Inc() }

// RecordSinkFailure increments the sink failure counter.
func RecordSinkFailure() { sinkFailures.Inc() }

// RecordSinkQueueDrop increments the full-queue drop counter.
func RecordSinkQueueDrop() { sinkQueueDrops.Inc() }

// RecordSourceReadError increments the transient read error counter.
func RecordSourceReadError() { sourceReadErrors.Inc() }

// SetBufferSize publishes the current in-progress buffer length.
func SetBufferSize(n int) { bufferSize.Set(float64(n)) }

// Registry exposes the custom registry for the /metrics handler.
func Registry() *prometheus.Registry { return customRegistry }
