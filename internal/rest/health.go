package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ModelInfo describes the loaded artifact. Empty when no model loaded.
type ModelInfo struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Path    string `json:"path"`
}

type HealthHandler struct {
	discountService DiscountService
	appName         string
	appVersion      string
	model           ModelInfo
}

type HealthResponse struct {
	Status      string    `json:"status"`
	App         string    `json:"app"`
	Version     string    `json:"version"`
	ModelLoaded bool      `json:"model_loaded"`
	Model       ModelInfo `json:"model"`
}

func NewHealthHandler(svc DiscountService, appName, appVersion string, model ModelInfo) *HealthHandler {
	return &HealthHandler{
		discountService: svc,
		appName:         appName,
		appVersion:      appVersion,
		model:           model,
	}
}

// Health always answers 200 while the process is up. A missing model is
// reported as degraded, since the form still serves.
func (h *HealthHandler) Health(c echo.Context) error {
	loaded := h.discountService.ModelAvailable()

	status := "ok"
	if !loaded {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:      status,
		App:         h.appName,
		Version:     h.appVersion,
		ModelLoaded: loaded,
		Model:       h.model,
	})
}
