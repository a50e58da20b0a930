package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CapabilityMetrics counts native capability calls made by one script run.
// Each instance owns its registry so runs never share counters.
type CapabilityMetrics struct {
	registry    *prometheus.Registry
	calls       *prometheus.CounterVec
	openSockets prometheus.Gauge
	bytesSent   prometheus.Counter
}

func NewCapabilityMetrics() *CapabilityMetrics {
	m := &CapabilityMetrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "voidtools",
				Subsystem: "capability",
				Name:      "calls_total",
				Help:      "Native capability calls issued by scripts.",
			},
			[]string{"op", "result"},
		),
		openSockets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voidtools",
			Subsystem: "capability",
			Name:      "open_sockets",
			Help:      "Sockets created and not yet closed.",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voidtools",
			Subsystem: "capability",
			Name:      "sent_bytes_total",
			Help:      "Bytes written to sockets.",
		}),
	}
	m.registry.MustRegister(m.calls, m.openSockets, m.bytesSent)
	return m
}

func (m *CapabilityMetrics) RecordCall(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
}

func (m *CapabilityMetrics) SocketOpened() {
	m.openSockets.Inc()
}

func (m *CapabilityMetrics) SocketClosed() {
	m.openSockets.Dec()
}

func (m *CapabilityMetrics) AddBytesSent(n int) {
	m.bytesSent.Add(float64(n))
}

// Gatherer exposes the run's registry.
func (m *CapabilityMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *CapabilityMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
