// Package metrics exposes pipeline counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

const namespace = "plant_monitor"

// Metrics holds the collectors of one process
type Metrics struct {
	registry *prometheus.Registry

	readings        prometheus.Counter
	actuatorsOn     *prometheus.CounterVec
	commands        *prometheus.CounterVec
	predictions     *prometheus.CounterVec
	subscribers     prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_ingested_total",
			Help:      "Sensor readings stored.",
		}),
		actuatorsOn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reading_actuator_on_total",
			Help:      "Stored readings with the actuator resolved on.",
		}, []string{"actuator"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuator_commands_total",
			Help:      "Explicit actuator commands applied.",
		}, []string{"actuator", "state"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Health predictions stored, by label.",
		}, []string{"label"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscribers",
			Help:      "Currently connected live subscribers.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.readings,
		m.actuatorsOn,
		m.commands,
		m.predictions,
		m.subscribers,
		m.requestDuration,
	)

	return m
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ReadingIngested counts a stored reading
func (m *Metrics) ReadingIngested(resolved models.ActuatorStates) {
	m.readings.Inc()
	for _, name := range models.ValidActuators {
		if resolved.Get(name) {
			m.actuatorsOn.WithLabelValues(name).Inc()
		}
	}
}

// ActuatorCommanded counts an explicit command
func (m *Metrics) ActuatorCommanded(actuator string, on bool) {
	m.commands.WithLabelValues(actuator, strconv.FormatBool(on)).Inc()
}

// PredictionMade counts a stored prediction
func (m *Metrics) PredictionMade(label string) {
	m.predictions.WithLabelValues(label).Inc()
}

// SetSubscribers records the live subscriber count
func (m *Metrics) SetSubscribers(n int) {
	m.subscribers.Set(float64(n))
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
