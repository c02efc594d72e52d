package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess           = "success"
	outcomeValidationFailure = "validation_failure"
	outcomeModelUnavailable  = "model_unavailable"
	outcomePredictionFailure = "prediction_failure"
)

var (
	PredictionOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewise_prediction_outcomes_total",
			Help: "Count of discount strategy requests by outcome.",
		},
		[]string{"outcome"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewise_prediction_cache_lookups_total",
			Help: "Prediction cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(PredictionOutcomesTotal, CacheLookupsTotal)
}
