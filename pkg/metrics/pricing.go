package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the discount strategy handlers, by endpoint
	StrategyLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricewise_strategy_latency_seconds",
		Help:    "Latency of discount strategy handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Strategy requests by endpoint and response status
	StrategyRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricewise_strategy_requests_total",
		Help: "Total number of discount strategy requests",
	}, []string{"endpoint", "status"})

	BatchRows = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricewise_batch_rows_total",
		Help: "Rows read from uploaded scenario workbooks",
	})
)

func Init() {
	prometheus.MustRegister(
		StrategyLatency,
		StrategyRequests,
		BatchRows,
	)
}
