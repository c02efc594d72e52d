package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"pricewise/domain"
	"pricewise/pkg/logger"
	"pricewise/pkg/money"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "index.html"

type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &TemplateRenderer{templates: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type PageHandler struct {
	discountService DiscountService
	modelNotice     string
	timeout         time.Duration
}

type pageView struct {
	Input           domain.LabeledInput
	PriceCategories []string
	DemandLevels    []string
	Weekdays        []string
	BaseRevenue     string
	ModelAvailable  bool
	ModelNotice     string
	Warning         string
	Failure         string
	Result          *resultView
}

type resultView struct {
	DiscountPercent      string
	BaseRevenue          string
	DiscountedUnitPrice  string
	RevenueAfterDiscount string
	RevenueDelta         string
	OutOfRange           bool
	Increase             bool
	Message              string
}

// NewPageHandler builds the form handler. modelNotice is shown in place of
// results while the model is unavailable.
func NewPageHandler(svc DiscountService, modelNotice string, timeout time.Duration) *PageHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if modelNotice == "" {
		modelNotice = "Prediction model is not loaded."
	}

	return &PageHandler{
		discountService: svc,
		modelNotice:     modelNotice,
		timeout:         timeout,
	}
}

func (h *PageHandler) newView(input domain.LabeledInput) pageView {
	return pageView{
		Input:           input,
		PriceCategories: domain.PriceCategoryLabels(),
		DemandLevels:    domain.DemandLevelLabels(),
		Weekdays:        domain.WeekdayLabels(),
		BaseRevenue:     money.Format(float64(input.Quantity) * input.UnitPrice),
		ModelAvailable:  h.discountService.ModelAvailable(),
		ModelNotice:     h.modelNotice,
	}
}

func (h *PageHandler) Show(c echo.Context) error {
	return c.Render(http.StatusOK, pageTemplate, h.newView(domain.DefaultInputRecord().Labeled()))
}

// Submit runs the pipeline for the posted form. Every outcome renders the
// page again; failures become notices rather than error statuses.
func (h *PageHandler) Submit(c echo.Context) error {
	var form domain.LabeledInput
	if err := c.Bind(&form); err != nil {
		view := h.newView(domain.DefaultInputRecord().Labeled())
		view.Warning = "Please enter numbers for quantity, unit price, and timing."
		return c.Render(http.StatusOK, pageTemplate, view)
	}

	view := h.newView(form)

	in, err := form.Resolve()
	if err != nil {
		view.Warning = err.Error()
		return c.Render(http.StatusOK, pageTemplate, view)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	strategy, err := h.discountService.Generate(ctx, in)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			view.Warning = verr.Message
		case errors.Is(err, domain.ErrModelUnavailable):
			// the static notice already says so
		default:
			logger.Error("Failed to generate discount strategy", err)
			view.Failure = "Prediction failed for this request. Please try again."
		}
		return c.Render(http.StatusOK, pageTemplate, view)
	}

	view.Result = &resultView{
		DiscountPercent:      money.Percent(strategy.DiscountPercent),
		BaseRevenue:          money.Format(strategy.Metrics.BaseRevenue),
		DiscountedUnitPrice:  money.Format(strategy.Metrics.DiscountedUnitPrice),
		RevenueAfterDiscount: money.Format(strategy.Metrics.RevenueAfterDiscount),
		RevenueDelta:         money.Format(strategy.Metrics.RevenueDelta),
		OutOfRange:           !strategy.WithinExpectedRange,
		Increase:             strategy.Outlook == domain.OutlookRevenueIncrease,
		Message:              strategy.Message,
	}

	return c.Render(http.StatusOK, pageTemplate, view)
}
