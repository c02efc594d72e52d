package rest

import (
	"context"
	"net/http"
	"pricewise/domain"
	"pricewise/internal/repository/spreadsheet"
	"pricewise/pkg/logger"
	"pricewise/pkg/metrics"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type (
	DiscountHandler struct {
		validate        *validator.Validate
		discountService DiscountService
		timeout         time.Duration
	}

	DiscountService interface {
		Generate(ctx context.Context, in domain.InputRecord) (domain.DiscountStrategy, error)
		GenerateBatch(ctx context.Context, scenarios []domain.Scenario) []domain.BatchOutcome
		ModelAvailable() bool
	}

	BatchQuery struct {
		Format string `query:"format" validate:"omitempty,oneof=json xlsx"`
	}

	OptionsResponse struct {
		PriceCategories []string            `json:"price_categories"`
		DemandLevels    []string            `json:"demand_levels"`
		Weekdays        []string            `json:"weekdays"`
		Defaults        domain.LabeledInput `json:"defaults"`
		ModelAvailable  bool                `json:"model_available"`
	}

	BatchRowResponse struct {
		Row      int               `json:"row"`
		Strategy *StrategyResponse `json:"strategy,omitempty"`
		Error    string            `json:"error,omitempty"`
	}

	BatchResponse struct {
		Total     int                `json:"total"`
		Succeeded int                `json:"succeeded"`
		Failed    int                `json:"failed"`
		Rows      []BatchRowResponse `json:"rows"`
	}
)

func NewDiscountHandler(svc DiscountService, timeout time.Duration) *DiscountHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &DiscountHandler{
		validate:        validator.New(),
		discountService: svc,
		timeout:         timeout,
	}
}

func (h *DiscountHandler) Strategy(c echo.Context) error {
	defer prometheus.NewTimer(metrics.StrategyLatency.WithLabelValues("strategy")).ObserveDuration()

	var req domain.LabeledInput
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "strategy", http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.fail(c, "strategy", http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	in, err := req.Resolve()
	if err != nil {
		code, body := errorStatus(err)
		return h.fail(c, "strategy", code, body)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	strategy, err := h.discountService.Generate(ctx, in)
	if err != nil {
		code, body := errorStatus(err)
		if code >= http.StatusInternalServerError {
			logger.Error("Failed to generate discount strategy", err)
		}
		return h.fail(c, "strategy", code, body)
	}

	metrics.StrategyRequests.WithLabelValues("strategy", strconv.Itoa(http.StatusOK)).Inc()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(newStrategyResponse(strategy)))
}

func (h *DiscountHandler) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(OptionsResponse{
		PriceCategories: domain.PriceCategoryLabels(),
		DemandLevels:    domain.DemandLevelLabels(),
		Weekdays:        domain.WeekdayLabels(),
		Defaults:        domain.DefaultInputRecord().Labeled(),
		ModelAvailable:  h.discountService.ModelAvailable(),
	}))
}

// Batch scores every row of an uploaded xlsx workbook. Results come back as
// JSON, or as a workbook when format=xlsx.
func (h *DiscountHandler) Batch(c echo.Context) error {
	defer prometheus.NewTimer(metrics.StrategyLatency.WithLabelValues("batch")).ObserveDuration()

	var q BatchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return h.fail(c, "batch", http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return h.fail(c, "batch", http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if !h.discountService.ModelAvailable() {
		code, body := errorStatus(domain.ErrModelUnavailable)
		return h.fail(c, "batch", code, body)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, "batch", http.StatusBadRequest, ResponseError{Message: "missing xlsx upload in field 'file'"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded workbook", err)
		return h.fail(c, "batch", http.StatusBadRequest, ResponseError{Message: "cannot read uploaded file"})
	}
	defer file.Close()

	scenarios, err := spreadsheet.ReadScenarios(file)
	if err != nil {
		return h.fail(c, "batch", http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	metrics.BatchRows.Add(float64(len(scenarios)))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	outcomes := h.discountService.GenerateBatch(ctx, scenarios)
	metrics.StrategyRequests.WithLabelValues("batch", strconv.Itoa(http.StatusOK)).Inc()

	if q.Format == "xlsx" {
		c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="pricewise_results.xlsx"`)
		c.Response().WriteHeader(http.StatusOK)
		if err := spreadsheet.WriteResults(c.Response(), outcomes); err != nil {
			logger.Error("Failed to write results workbook", err)
			return err
		}
		return nil
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newBatchResponse(outcomes)))
}

func newBatchResponse(outcomes []domain.BatchOutcome) BatchResponse {
	resp := BatchResponse{
		Total: len(outcomes),
		Rows:  make([]BatchRowResponse, 0, len(outcomes)),
	}

	for _, out := range outcomes {
		row := BatchRowResponse{Row: out.Row}
		if out.Strategy != nil {
			s := newStrategyResponse(*out.Strategy)
			row.Strategy = &s
			resp.Succeeded++
		} else {
			if err := out.Failure(); err != nil {
				_, body := errorStatus(err)
				row.Error = body.Message
			}
			resp.Failed++
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp
}

func (h *DiscountHandler) fail(c echo.Context, endpoint string, code int, body ResponseError) error {
	metrics.StrategyRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	return c.JSON(code, body)
}
