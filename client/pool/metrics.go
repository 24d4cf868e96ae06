package pool

import (
	"github.com/VictoriaMetrics/metrics"
)

// Pool lifecycle counters, registered with the default metrics set so an
// embedding application can expose them via metrics.WritePrometheus.
var (
	metricCreated       = metrics.NewCounter(`shibudb_pool_connections_created_total`)
	metricAcquired      = metrics.NewCounter(`shibudb_pool_connections_acquired_total`)
	metricReleased      = metrics.NewCounter(`shibudb_pool_connections_released_total`)
	metricProbeFailures = metrics.NewCounter(`shibudb_pool_probe_failures_total`)
	metricExhausted     = metrics.NewCounter(`shibudb_pool_exhausted_total`)
)
