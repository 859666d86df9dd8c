package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness probe. It returns 200 as long as the
// process can answer.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HydrationStatus is the part of the store the readiness probe inspects.
type HydrationStatus interface {
	Hydrated() bool
	PersistenceErr() error
}

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessHandler serves the readiness probe. The service is ready once the persisted state is loaded and every
// dependency answers a ping. A failing snapshot writer degrades readiness.
type ReadinessHandler struct {
	store HydrationStatus
	deps  map[string]Pinger
}

func NewReadinessHandler(store HydrationStatus, deps map[string]Pinger) *ReadinessHandler {
	return &ReadinessHandler{store: store, deps: deps}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps)+2)
	healthy := true

	// --- Store hydration ---
	if h.store.Hydrated() {
		deps["state"] = dependencyStatus{Status: "ok"}
	} else {
		deps["state"] = dependencyStatus{Status: "loading"}
		healthy = false
	}

	// --- Snapshot writer ---
	if err := h.store.PersistenceErr(); err != nil {
		deps["persistence"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["persistence"] = dependencyStatus{Status: "ok"}
	}

	// --- Storage backends ---
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
