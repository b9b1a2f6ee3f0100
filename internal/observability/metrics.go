package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streak",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Record store operations by kind, operation and result.",
	}, []string{"kind", "op", "result"})
	storeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streak",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Latency of record store operations.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"kind", "op"})
	dataVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "streak",
		Name:      "data_version",
		Help:      "Number of committed record changes seen by this process.",
	})
	skippedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streak",
		Subsystem: "analytics",
		Name:      "skipped_records_total",
		Help:      "Records skipped during aggregation because their timestamp did not parse.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(storeOps, storeLatency, dataVersion, skippedRecords)
}

// ObserveStoreOp records the outcome and latency of one store call.
func ObserveStoreOp(kind, op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOps.WithLabelValues(kind, op, result).Inc()
	storeLatency.WithLabelValues(kind, op).Observe(time.Since(started).Seconds())
}

func SetDataVersion(v uint64) {
	dataVersion.Set(float64(v))
}

func RecordSkipped(kind string) {
	skippedRecords.WithLabelValues(kind).Inc()
}

var httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "streak",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Dashboard requests by route pattern and status code.",
}, []string{"route", "code"})

func init() {
	prometheus.MustRegister(httpRequests)
}

func ObserveHTTP(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
