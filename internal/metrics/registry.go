// Package metrics holds the private Prometheus registry shared by every monerorpc package.
// Collectors are registered here instead of the global default registry so that embedding
// applications decide whether and where to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector name.
const Namespace = "monerorpc"

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeProtocol  = "protocol_error"
	OutcomeRemote    = "remote_error"
	OutcomeStatus    = "status_error"
	OutcomeDecode    = "decode_error"
	OutcomeRejected  = "rejected"
)

var (
	registry = prometheus.NewRegistry()
	auto     = promauto.With(registry)
)

// Auto returns a factory that registers collectors with the package registry.
func Auto() promauto.Factory {
	return auto
}

// Registry returns the registry every monerorpc collector is registered with.
func Registry() *prometheus.Registry {
	return registry
}
