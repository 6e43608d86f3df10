package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "brain"
)

// Register adds collectors to the default registry served on /metrics/
func Register(collectors ...prometheus.Collector) {
	prometheus.MustRegister(collectors...)
}
