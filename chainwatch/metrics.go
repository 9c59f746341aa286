package chainwatch

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/monerorpc/internal/metrics"
)

var polledHeaders = metrics.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "chainwatch",
	Name:      "headers_total",
	Help:      "Number of block headers emitted by the stream",
})

var failedPolls = metrics.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "chainwatch",
	Name:      "failed_polls_total",
	Help:      "Number of failed block header polls",
})

var rewoundHeaders = metrics.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "chainwatch",
	Name:      "rewound_headers_total",
	Help:      "Number of already emitted headers the stream stepped back over after a reorganisation",
})

var reorgDroppedHeaders = metrics.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "chainwatch",
	Name:      "reorg_dropped_headers_total",
	Help:      "Number of unconfirmed headers dropped from the confirmation window due to chain reorganisation",
})
