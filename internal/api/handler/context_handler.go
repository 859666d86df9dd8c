package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hydrowise/hydration-service/internal/api/metrics"
	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// ContextHandler feeds external signals (weather, motion) to the target policy.
type ContextHandler struct {
	policy ports.TargetPolicy
}

func NewContextHandler(policy ports.TargetPolicy) *ContextHandler {
	return &ContextHandler{policy: policy}
}

// Weather handles POST /v1/context/weather. A denied location permission or
// an unavailable provider is reported in the body with a 200, never as an
// error.
//
// @Summary      Refresh the weather context and apply the heat rule
// @Tags         context
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      weatherRequest  true  "Device location"
// @Success      200   {object}  weatherResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/context/weather [post]
func (h *ContextHandler) Weather(c echo.Context) error {
	var req weatherRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.policy.RefreshWeather(c.Request().Context(), toWeatherInput(req))
	if err != nil {
		return err
	}

	metrics.WeatherLookupsTotal.WithLabelValues(string(out.Status)).Inc()
	if out.TargetBumped {
		metrics.TargetBumpsTotal.WithLabelValues(domain.SourceHeat).Inc()
		metrics.DailyTarget.Set(float64(out.DailyTarget))
	}
	return c.JSON(http.StatusOK, toWeatherResponse(out))
}

// ActivitySamples handles POST /v1/activity/samples.
//
// @Summary      Feed accelerometer samples to the activity detector
// @Tags         context
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      activityBatchRequest  true  "Samples in g, oldest first"
// @Success      200   {object}  activityResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/activity/samples [post]
func (h *ContextHandler) ActivitySamples(c echo.Context) error {
	var req activityBatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.policy.IngestSamples(c.Request().Context(), toSamples(req.Samples))
	if err != nil {
		return err
	}

	if res.GoalsReached > 0 {
		metrics.TargetBumpsTotal.WithLabelValues(domain.SourceActivity).Add(float64(res.GoalsReached))
		metrics.DailyTarget.Set(float64(res.DailyTarget))
	}
	return c.JSON(http.StatusOK, activityResponse{
		GoalsReached: res.GoalsReached,
		Points:       res.Points,
		CoolingDown:  res.CoolingDown,
		DailyTarget:  res.DailyTarget,
	})
}
