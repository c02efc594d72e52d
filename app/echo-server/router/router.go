package router

import (
	"pricewise/internal/middleware"
	"pricewise/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupPageRoutes(e *echo.Echo, handler *rest.PageHandler) {
	e.GET("/", handler.Show)
	e.POST("/", handler.Submit)
}

func SetupDiscountRoutes(api *echo.Group, handler *rest.DiscountHandler) {
	discounts := api.Group("/discounts")

	discounts.GET("/options", handler.Options)
	discounts.POST("/strategy", handler.Strategy)
	discounts.POST("/batch", handler.Batch)
}

// SetupHistoryRoutes exposes the audit log to admins. Only registered when
// the log is enabled.
func SetupHistoryRoutes(api *echo.Group, handler *rest.HistoryHandler, jwtSecret string) {
	predictions := api.Group("/predictions", middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	predictions.GET("", handler.Recent)
}

func SetupOpsRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
