package rest

import (
	"context"
	"errors"
	"net/http"
	"pricewise/domain"
	"pricewise/pkg/money"
)

type ResponseError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StrategyDisplay carries the figures as the page shows them.
type StrategyDisplay struct {
	DiscountPercent      string `json:"discount_percent"`
	BaseRevenue          string `json:"base_revenue"`
	DiscountedUnitPrice  string `json:"discounted_unit_price"`
	RevenueAfterDiscount string `json:"revenue_after_discount"`
	RevenueDelta         string `json:"revenue_delta"`
}

type StrategyResponse struct {
	domain.DiscountStrategy
	Labels  domain.LabeledInput `json:"labels"`
	Display StrategyDisplay     `json:"display"`
}

func newStrategyResponse(s domain.DiscountStrategy) StrategyResponse {
	return StrategyResponse{
		DiscountStrategy: s,
		Labels:           s.Input.Labeled(),
		Display: StrategyDisplay{
			DiscountPercent:      money.Percent(s.DiscountPercent),
			BaseRevenue:          money.Format(s.Metrics.BaseRevenue),
			DiscountedUnitPrice:  money.Format(s.Metrics.DiscountedUnitPrice),
			RevenueAfterDiscount: money.Format(s.Metrics.RevenueAfterDiscount),
			RevenueDelta:         money.Format(s.Metrics.RevenueDelta),
		},
	}
}

// errorStatus maps a pipeline error onto the HTTP status and the message a
// caller sees. Internal detail stays in the logs.
func errorStatus(err error) (int, ResponseError) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ResponseError{Message: verr.Message, Field: verr.Field}
	case errors.Is(err, domain.ErrUnknownLabel):
		return http.StatusBadRequest, ResponseError{Message: err.Error()}
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable, ResponseError{Message: "prediction model is not loaded"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ResponseError{Message: "prediction timed out"}
	case errors.Is(err, domain.ErrPrediction):
		return http.StatusInternalServerError, ResponseError{Message: "prediction failed for this request, please retry"}
	default:
		return http.StatusInternalServerError, ResponseError{Message: "internal server error"}
	}
}
