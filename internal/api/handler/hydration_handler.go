package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hydrowise/hydration-service/internal/api/metrics"
	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// HydrationHandler exposes the store's read/write surface.
type HydrationHandler struct {
	store  ports.HydrationStore
	policy ports.TargetPolicy
}

func NewHydrationHandler(store ports.HydrationStore, policy ports.TargetPolicy) *HydrationHandler {
	return &HydrationHandler{store: store, policy: policy}
}

// State handles GET /v1/state.
//
// @Summary      Current hydration state
// @Tags         hydration
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/state [get]
func (h *HydrationHandler) State(c echo.Context) error {
	st, err := h.store.Snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// AddWater handles POST /v1/intake.
//
// @Summary      Log a drink
// @Tags         hydration
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addWaterRequest  true  "Amount in ml"
// @Success      201   {object}  stateResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/intake [post]
func (h *HydrationHandler) AddWater(c echo.Context) error {
	var req addWaterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.store.AddWater(c.Request().Context(), req.Amount)
	if err != nil {
		return err
	}

	metrics.IntakeEntriesTotal.WithLabelValues(string(domain.KindIntake)).Inc()
	if req.Amount > 0 {
		metrics.IntakeMillilitersTotal.Add(float64(req.Amount))
	}
	return c.JSON(http.StatusCreated, toStateResponse(st))
}

// Adjust handles POST /v1/intake/adjustments.
//
// @Summary      Record a correction that is not a drink
// @Tags         hydration
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adjustmentRequest  true  "Signed amount in ml"
// @Success      201   {object}  stateResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/intake/adjustments [post]
func (h *HydrationHandler) Adjust(c echo.Context) error {
	var req adjustmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.store.Adjust(c.Request().Context(), req.Amount, req.Note)
	if err != nil {
		return err
	}
	metrics.IntakeEntriesTotal.WithLabelValues(string(domain.KindAdjustment)).Inc()
	return c.JSON(http.StatusCreated, toStateResponse(st))
}

// ResetIntake handles POST /v1/intake/reset.
//
// @Summary      Bring today's intake back to zero
// @Tags         hydration
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Router       /v1/intake/reset [post]
func (h *HydrationHandler) ResetIntake(c echo.Context) error {
	st, err := h.store.ResetIntake(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// ResetDaily handles POST /v1/day/reset.
//
// @Summary      Clear today's intake and the whole log
// @Tags         hydration
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Router       /v1/day/reset [post]
func (h *HydrationHandler) ResetDaily(c echo.Context) error {
	st, err := h.store.ResetDaily()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// RollDay handles POST /v1/day/rollover. Clients call it when the app opens.
//
// @Summary      Start a new calendar day if the previous one has passed
// @Tags         hydration
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Router       /v1/day/rollover [post]
func (h *HydrationHandler) RollDay(c echo.Context) error {
	st, err := h.store.RollDay()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// SetTarget handles PUT /v1/target.
//
// @Summary      Override the daily target
// @Tags         target
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setTargetRequest  true  "Target in ml"
// @Success      200   {object}  stateResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/target [put]
func (h *HydrationHandler) SetTarget(c echo.Context) error {
	var req setTargetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.store.SetTarget(req.DailyTarget)
	if err != nil {
		return err
	}
	metrics.TargetSetsTotal.WithLabelValues(domain.SourceManual).Inc()
	metrics.DailyTarget.Set(float64(st.DailyTarget))
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// Recommendation handles GET /v1/target/recommendation.
//
// @Summary      Recommended target for a body weight and gender
// @Tags         target
// @Produce      json
// @Security     BearerAuth
// @Param        weight  query     number  true   "Body weight in kg"
// @Param        gender  query     string  false  "male or female"
// @Success      200     {object}  recommendationResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/target/recommendation [get]
func (h *HydrationHandler) Recommendation(c echo.Context) error {
	var q recommendationQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recommendationResponse{
		DailyTarget: domain.CalculateTarget(q.Weight, domain.Gender(q.Gender)),
	})
}

// UpdateProfile handles PATCH /v1/profile. Absent fields are left unchanged.
//
// @Summary      Merge fields into the user profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePatchRequest  true  "Partial profile"
// @Success      200   {object}  stateResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/profile [patch]
func (h *HydrationHandler) UpdateProfile(c echo.Context) error {
	var req profilePatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.store.SetUserData(toProfilePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStateResponse(st))
}

// Onboard handles POST /v1/onboarding.
//
// @Summary      Complete onboarding and seed the daily target
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      onboardingRequest  true  "Onboarding form"
// @Success      200   {object}  stateResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/onboarding [post]
func (h *HydrationHandler) Onboard(c echo.Context) error {
	var req onboardingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := h.policy.Onboard(c.Request().Context(), toOnboardingInput(req))
	if err != nil {
		return err
	}
	metrics.TargetSetsTotal.WithLabelValues(domain.SourceOnboarding).Inc()
	metrics.DailyTarget.Set(float64(st.DailyTarget))
	return c.JSON(http.StatusOK, toStateResponse(st))
}
