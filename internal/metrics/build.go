package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Build paths
const (
	PathSweep = "sweep"
	PathURI   = "uri"
)

// ResultBuilt labels a successful build; failures are labelled with their error kind.
const ResultBuilt = "built"

var (
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "builds_total",
			Help:      "Total number of transaction build attempts",
		},
		[]string{"path", "result"},
	)

	buildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "builder",
			Name:      "build_duration_seconds",
			Help:      "Time taken to build a transaction, backend calls included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "payloads_total",
			Help:      "Total number of scanned payloads by classification",
		},
		[]string{"kind"},
	)
)

// ObserveBuild records one build attempt on path with result ResultBuilt or an error kind
func ObserveBuild(path, result string, started time.Time) {
	buildsTotal.WithLabelValues(path, result).Inc()
	buildDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}

// ObserveScan records a classified payload
func ObserveScan(kind string) {
	scansTotal.WithLabelValues(kind).Inc()
}
