package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pricewise/business/pricing"
	"pricewise/domain"
	"pricewise/internal/middleware"
	"pricewise/internal/rest"
	"pricewise/pkg/utils"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyHistory struct{}

func (emptyHistory) RecentPredictions(context.Context, int) ([]domain.PredictionLog, error) {
	return []domain.PredictionLog{}, nil
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	svc := pricing.NewPricingService(nil, nil, nil, pricing.DefaultConfig())
	renderer, err := rest.NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = middleware.ErrorHandler

	api := e.Group("/api/v1")
	SetupPageRoutes(e, rest.NewPageHandler(svc, "", time.Second))
	SetupDiscountRoutes(api, rest.NewDiscountHandler(svc, time.Second))
	SetupHistoryRoutes(api, rest.NewHistoryHandler(emptyHistory{}), "secret")
	SetupOpsRoutes(e, rest.NewHealthHandler(svc, "PriceWise AI", "test", rest.ModelInfo{}))

	return e
}

func TestRoutes(t *testing.T) {
	e := newTestEcho(t)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/discounts/options", http.StatusOK},
		{http.MethodGet, "/api/v1/predictions", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHistoryRouteRequiresAdmin(t *testing.T) {
	e := newTestEcho(t)

	for role, status := range map[string]int{"ADMIN": http.StatusOK, "USER": http.StatusForbidden} {
		token, err := utils.GenerateJWT("ops-1", role, "secret", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, status, rec.Code, role)
	}
}
