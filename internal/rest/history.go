package rest

import (
	"context"
	"errors"
	"net/http"
	"pricewise/domain"
	"pricewise/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	HistoryHandler struct {
		validate       *validator.Validate
		historyService HistoryService
		timeout        time.Duration
	}

	HistoryService interface {
		RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error)
	}

	HistoryQuery struct {
		Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
	}
)

func NewHistoryHandler(svc HistoryService) *HistoryHandler {
	return &HistoryHandler{
		validate:       validator.New(),
		historyService: svc,
		timeout:        10 * time.Second,
	}
}

func (h *HistoryHandler) Recent(c echo.Context) error {
	var q HistoryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	logs, err := h.historyService.RecentPredictions(ctx, q.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrHistoryDisabled) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to find recent predictions", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load prediction history"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(logs))
}
