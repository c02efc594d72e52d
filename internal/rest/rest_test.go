package rest

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"pricewise/business/pricing"
	"pricewise/domain"
	"pricewise/internal/repository/modelfile"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubPredictor struct {
	discount float64
	err      error
	calls    int
}

func (p *stubPredictor) PredictDiscount(_ context.Context, _ domain.FeatureVector) (float64, error) {
	p.calls++
	return p.discount, p.err
}

type stubHistory struct {
	logs  []domain.PredictionLog
	err   error
	limit int
}

func (s *stubHistory) RecentPredictions(_ context.Context, limit int) ([]domain.PredictionLog, error) {
	s.limit = limit
	return s.logs, s.err
}

// newServer wires the handlers the way the router does. A nil predictor
// means no model was loaded.
func newServer(t *testing.T, predictor *stubPredictor) *echo.Echo {
	t.Helper()

	var svc *pricing.PricingService
	if predictor != nil {
		svc = pricing.NewPricingService(predictor, nil, nil, pricing.DefaultConfig())
	} else {
		svc = pricing.NewPricingService(nil, nil, nil, pricing.DefaultConfig())
	}

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer

	page := NewPageHandler(svc, "Model file not found. Please ensure 'pricewise_model.yaml' exists.", time.Second)
	e.GET("/", page.Show)
	e.POST("/", page.Submit)

	discounts := NewDiscountHandler(svc, time.Second)
	e.POST("/api/v1/discounts/strategy", discounts.Strategy)
	e.GET("/api/v1/discounts/options", discounts.Options)
	e.POST("/api/v1/discounts/batch", discounts.Batch)

	health := NewHealthHandler(svc, "PriceWise AI", "test", ModelInfo{Path: "pricewise_model.yaml"})
	e.GET("/health", health.Health)

	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts/strategy", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

const scenarioJSON = `{
	"quantity": 10,
	"unit_price": 5.0,
	"price_category": "Economy",
	"demand_level": "Moderate",
	"month": 6,
	"day_of_month": 15,
	"hour": 12,
	"day_of_week": "Monday"
}`

func TestStrategy(t *testing.T) {
	predictor := &stubPredictor{discount: 12.5}
	rec := do(newServer(t, predictor), jsonRequest(scenarioJSON))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"discount_percent":12.5`)
	assert.Contains(t, body, `"revenue_after_discount":43.75`)
	assert.Contains(t, body, `"revenue_delta":-6.25`)
	assert.Contains(t, body, `"features":[10,5,50,6,15,12,0,2,1]`)
	assert.Contains(t, body, `"outlook":"revenue_risk"`)
	assert.Contains(t, body, `"$-6.25"`)
	assert.Contains(t, body, `"12.50 %"`)
	assert.Contains(t, body, "This discount may reduce revenue but could increase sales volume.")
	assert.Equal(t, 1, predictor.calls)
}

func TestStrategy_Errors(t *testing.T) {
	cases := []struct {
		name      string
		predictor *stubPredictor
		body      string
		status    int
		contains  string
	}{
		{
			name:      "unit price gate",
			predictor: &stubPredictor{discount: 1},
			body:      strings.Replace(scenarioJSON, `"unit_price": 5.0`, `"unit_price": 0`, 1),
			status:    http.StatusBadRequest,
			contains:  `"field":"unit_price"`,
		},
		{
			name:      "unknown label",
			predictor: &stubPredictor{discount: 1},
			body:      strings.Replace(scenarioJSON, `"Economy"`, `"Bargain"`, 1),
			status:    http.StatusBadRequest,
			contains:  "unknown label",
		},
		{
			name:      "out of range month",
			predictor: &stubPredictor{discount: 1},
			body:      strings.Replace(scenarioJSON, `"month": 6`, `"month": 13`, 1),
			status:    http.StatusBadRequest,
			contains:  "Month",
		},
		{
			name:      "malformed json",
			predictor: &stubPredictor{discount: 1},
			body:      `{"quantity": "ten"`,
			status:    http.StatusBadRequest,
			contains:  "message",
		},
		{
			name:     "no model",
			body:     scenarioJSON,
			status:   http.StatusServiceUnavailable,
			contains: "prediction model is not loaded",
		},
		{
			name:      "model failure",
			predictor: &stubPredictor{err: errors.New("shape (1, 8) does not match")},
			body:      scenarioJSON,
			status:    http.StatusInternalServerError,
			contains:  "prediction failed for this request",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newServer(t, tc.predictor), jsonRequest(tc.body))

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.contains)
			if tc.predictor != nil && tc.status == http.StatusBadRequest {
				assert.Zero(t, tc.predictor.calls)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	rec := do(newServer(t, nil), httptest.NewRequest(http.MethodGet, "/api/v1/discounts/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `["Economy","Mid-Range","Premium","Luxury"]`)
	assert.Contains(t, body, `["Low","Moderate","High","Very High"]`)
	assert.Contains(t, body, `"Sunday"`)
	assert.Contains(t, body, `"model_available":false`)
}

func scenarioWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Quantity", "Unit Price", "Category", "Demand", "Month", "Day", "Hour", "Weekday"},
		{10, 5.0, "Economy", "Moderate", 6, 15, 12, "Monday"},
		{4, 0, "Premium", "High", 11, 28, 9, "Friday"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, target string, workbook []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if workbook != nil {
		part, err := w.CreateFormFile("file", "scenarios.xlsx")
		require.NoError(t, err)
		_, err = part.Write(workbook)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestBatch(t *testing.T) {
	predictor := &stubPredictor{discount: 12.5}
	rec := do(newServer(t, predictor), uploadRequest(t, "/api/v1/discounts/batch", scenarioWorkbook(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"total":2`)
	assert.Contains(t, body, `"succeeded":1`)
	assert.Contains(t, body, `"failed":1`)
	assert.Contains(t, body, `"revenue_after_discount":43.75`)
	assert.Contains(t, body, "Unit price must be greater than 0")
	assert.Equal(t, 1, predictor.calls)
}

func TestBatch_Workbook(t *testing.T) {
	rec := do(newServer(t, &stubPredictor{discount: 12.5}), uploadRequest(t, "/api/v1/discounts/batch?format=xlsx", scenarioWorkbook(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestBatch_Errors(t *testing.T) {
	rec := do(newServer(t, &stubPredictor{}), uploadRequest(t, "/api/v1/discounts/batch", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(newServer(t, &stubPredictor{}), uploadRequest(t, "/api/v1/discounts/batch?format=csv", scenarioWorkbook(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(newServer(t, &stubPredictor{}), uploadRequest(t, "/api/v1/discounts/batch", []byte("not a workbook")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(newServer(t, nil), uploadRequest(t, "/api/v1/discounts/batch", scenarioWorkbook(t)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func scenarioForm() url.Values {
	return url.Values{
		"quantity":       {"10"},
		"unit_price":     {"5.0"},
		"price_category": {"Economy"},
		"demand_level":   {"Moderate"},
		"month":          {"6"},
		"day_of_month":   {"15"},
		"hour":           {"12"},
		"day_of_week":    {"Monday"},
	}
}

func TestPage_Show(t *testing.T) {
	rec := do(newServer(t, &stubPredictor{}), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Estimated Base Revenue")
	assert.Contains(t, body, "$50.00")
	assert.Contains(t, body, "What do these inputs mean?")
	assert.Contains(t, body, "<option selected>Moderate</option>")
	assert.NotContains(t, body, "Model file not found")
}

func TestPage_Submit(t *testing.T) {
	predictor := &stubPredictor{discount: 12.5}
	rec := do(newServer(t, predictor), formRequest(scenarioForm()))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Recommended Discount Strategy")
	assert.Contains(t, body, "12.50 %")
	assert.Contains(t, body, "Discounted Unit Price")
	assert.Contains(t, body, "$4.38")
	assert.Contains(t, body, "$43.75")
	assert.Contains(t, body, "$-6.25")
	assert.Contains(t, body, "This discount may reduce revenue but could increase sales volume.")
	assert.NotContains(t, body, "outside 0-100")
}

func TestPage_SubmitIncrease(t *testing.T) {
	rec := do(newServer(t, &stubPredictor{discount: -10}), formRequest(scenarioForm()))

	body := rec.Body.String()
	assert.Contains(t, body, "This discount strategy increases total revenue.")
	assert.Contains(t, body, "$55.00")
	assert.Contains(t, body, "outside 0-100")
}

func TestPage_SubmitWarning(t *testing.T) {
	predictor := &stubPredictor{discount: 12.5}
	form := scenarioForm()
	form.Set("unit_price", "0")

	rec := do(newServer(t, predictor), formRequest(form))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unit price must be greater than 0")
	assert.NotContains(t, rec.Body.String(), "Recommended Discount Strategy")
	assert.Zero(t, predictor.calls)
}

func TestPage_ModelNoticeMatchesLoadFailure(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer

	loadErr := &modelfile.LoadError{Path: "pricewise_model.yaml", Err: modelfile.ErrArtifactCorrupt}
	svc := pricing.NewPricingService(nil, nil, nil, pricing.DefaultConfig())
	page := NewPageHandler(svc, loadErr.Notice(), time.Second)
	e.GET("/", page.Show)

	body := do(e, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, body, "is corrupt and could not be parsed")
	assert.NotContains(t, body, "Model file not found")
}

func TestPage_ModelMissing(t *testing.T) {
	e := newServer(t, nil)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "Model file not found. Please ensure")

	// validation still warns without a model
	form := scenarioForm()
	form.Set("unit_price", "-1")
	rec = do(e, formRequest(form))
	assert.Contains(t, rec.Body.String(), "Unit price must be greater than 0")

	rec = do(e, formRequest(scenarioForm()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Model file not found")
	assert.NotContains(t, rec.Body.String(), "Recommended Discount Strategy")
}

func TestPage_PredictionFailure(t *testing.T) {
	predictor := &stubPredictor{err: errors.New("boom")}
	e := newServer(t, predictor)

	rec := do(e, formRequest(scenarioForm()))
	assert.Contains(t, rec.Body.String(), "Prediction failed for this request")

	predictor.err = nil
	predictor.discount = 12.5
	rec = do(e, formRequest(scenarioForm()))
	assert.Contains(t, rec.Body.String(), "$43.75")
}

func TestHistory(t *testing.T) {
	history := &stubHistory{logs: []domain.PredictionLog{{ID: "strategy-1", DiscountPercent: 12.5}}}

	e := echo.New()
	e.GET("/api/v1/predictions", NewHistoryHandler(history).Recent)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/v1/predictions?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"strategy-1"`)
	assert.Equal(t, 5, history.limit)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/v1/predictions?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	history.err = domain.ErrHistoryDisabled
	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	history.err = errors.New("pq: connection refused")
	rec = do(e, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestHealth(t *testing.T) {
	rec := do(newServer(t, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"model_loaded":false`)

	rec = do(newServer(t, &stubPredictor{}), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
