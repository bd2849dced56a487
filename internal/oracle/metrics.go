package oracle

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeNetworkError = "network_error"
	outcomeDecodeError  = "decode_error"
)

var histogramBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20}

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bozo",
		Subsystem: "oracle_api",
		Name:      "requests_total",
		Help:      "Count of calls to the remote oracle API",
	}, []string{"endpoint", "outcome"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bozo",
		Subsystem: "oracle_api",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of calls to the remote oracle API",
		Buckets:   histogramBuckets,
	}, []string{"endpoint", "outcome"})
)

// statusOutcome превращает не-2xx статус в метку вида "status_404".
func statusOutcome(code int) string {
	return "status_" + strconv.Itoa(code)
}

func observe(endpoint, outcome string, d time.Duration) {
	labels := prometheus.Labels{"endpoint": endpoint, "outcome": outcome}
	requestTotal.With(labels).Inc()
	requestLatency.With(labels).Observe(d.Seconds())
}
