package monerorpc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/monerorpc/internal/metrics"
)

var (
	requestsTotal = metrics.Auto().NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "requests_total",
		Help:      "Number of rpc calls by endpoint kind, method and outcome. Results the client rejects after decoding count as rejected",
	}, []string{"endpoint", "method", "outcome"})

	requestDuration = metrics.Auto().NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of rpc round trips, including response decoding",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

// MetricsRegistry returns the Prometheus registry the client's collectors are registered with.
// Serve it with promhttp.HandlerFor to expose the metrics.
func MetricsRegistry() *prometheus.Registry {
	return metrics.Registry()
}

func outcomeOf(err error) string {
	var (
		transportErr *TransportError
		protocolErr  *ProtocolError
		remoteErr    *RemoteError
		statusErr    *StatusError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &transportErr):
		return metrics.OutcomeTransport
	case errors.As(err, &protocolErr):
		return metrics.OutcomeProtocol
	case errors.As(err, &remoteErr):
		return metrics.OutcomeRemote
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatus
	case errors.Is(err, ErrInvalidHeight):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeDecode
	}
}
