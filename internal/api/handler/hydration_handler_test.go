package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hydrowise/hydration-service/internal/api/metrics"
	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubStore struct {
	state       *domain.State
	err         error
	addedAmount int
	adjustNote  string
	patch       domain.ProfilePatch
	target      int
}

func (s *stubStore) result() (*domain.State, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.state.Clone(), nil
}

func (s *stubStore) Hydrated() bool                   { return s.err == nil }
func (s *stubStore) Snapshot() (*domain.State, error) { return s.result() }
func (s *stubStore) Today() string                    { return "2026-10-16" }

func (s *stubStore) AddWater(_ context.Context, amount int) (*domain.State, error) {
	s.addedAmount = amount
	if s.err == nil {
		s.state.CurrentIntake += amount
	}
	return s.result()
}

func (s *stubStore) Adjust(_ context.Context, amount int, note string) (*domain.State, error) {
	s.addedAmount, s.adjustNote = amount, note
	return s.result()
}

func (s *stubStore) ResetIntake(_ context.Context) (*domain.State, error) { return s.result() }
func (s *stubStore) ResetDaily() (*domain.State, error)                   { return s.result() }
func (s *stubStore) RollDay() (*domain.State, error)                      { return s.result() }
func (s *stubStore) AddActivityBonus() (*domain.State, error)             { return s.result() }

func (s *stubStore) SetTarget(target int) (*domain.State, error) {
	s.target = target
	if s.err == nil {
		s.state.DailyTarget = target
	}
	return s.result()
}

func (s *stubStore) SetUserData(patch domain.ProfilePatch) (*domain.State, error) {
	s.patch = patch
	return s.result()
}

func (s *stubStore) ApplyHeat(int) (*domain.State, bool, error) {
	st, err := s.result()
	return st, false, err
}

type stubPolicy struct {
	onboardFn func(ctx context.Context, in ports.OnboardingInput) (*domain.State, error)
	weatherFn func(ctx context.Context, in ports.WeatherInput) (*ports.WeatherOutcome, error)
	ingestFn  func(ctx context.Context, samples []domain.ActivitySample) (*ports.ActivityResult, error)
}

func (p *stubPolicy) Onboard(ctx context.Context, in ports.OnboardingInput) (*domain.State, error) {
	return p.onboardFn(ctx, in)
}

func (p *stubPolicy) RefreshWeather(ctx context.Context, in ports.WeatherInput) (*ports.WeatherOutcome, error) {
	return p.weatherFn(ctx, in)
}

func (p *stubPolicy) ApplyActivity(context.Context) (*domain.State, error) {
	return nil, nil
}

func (p *stubPolicy) IngestSamples(ctx context.Context, samples []domain.ActivitySample) (*ports.ActivityResult, error) {
	return p.ingestFn(ctx, samples)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func sampleState() *domain.State {
	st := domain.NewState()
	st.DailyTarget = 2000
	st.CurrentIntake = 500
	st.History = []domain.LogEntry{
		{ID: "e1", Date: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC), Amount: 500, Kind: domain.KindIntake},
	}
	return st
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHydrationHandler_State(t *testing.T) {
	e := newEcho()
	h := NewHydrationHandler(&stubStore{state: sampleState()}, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/state", "")
	if err := h.State(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["dailyTarget"] != float64(2000) || resp["currentIntake"] != float64(500) || resp["percentage"] != float64(25) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	user := resp["userData"].(map[string]any)
	if g, ok := user["gender"]; !ok || g != nil {
		t.Fatalf("expected gender null for unset profile, got %v", user)
	}
	history := resp["history"].([]any)
	if len(history) != 1 || history[0].(map[string]any)["kind"] != "intake" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestHydrationHandler_State_NotReady(t *testing.T) {
	e := newEcho()
	h := NewHydrationHandler(&stubStore{err: domain.ErrNotReady}, &stubPolicy{})

	c, _ := newJSONContext(e, http.MethodGet, "/v1/state", "")
	if err := h.State(c); err != domain.ErrNotReady {
		t.Fatalf("expected ErrNotReady to reach the error handler, got %v", err)
	}
}

func TestHydrationHandler_AddWater(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: sampleState()}
	h := NewHydrationHandler(store, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/intake", `{"amount":250}`)
	if err := h.AddWater(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if store.addedAmount != 250 {
		t.Fatalf("expected 250 forwarded, got %d", store.addedAmount)
	}

	var resp stateResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.CurrentIntake != 750 {
		t.Fatalf("expected 750, got %d", resp.CurrentIntake)
	}
}

func TestHydrationHandler_AddWater_NegativeAccepted(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: sampleState()}
	h := NewHydrationHandler(store, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/intake", `{"amount":-100}`)
	if err := h.AddWater(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || store.addedAmount != -100 {
		t.Fatalf("negative amount not forwarded: code=%d amount=%d", rec.Code, store.addedAmount)
	}
}

func TestHydrationHandler_AddWater_Invalid(t *testing.T) {
	e := newEcho()
	h := NewHydrationHandler(&stubStore{state: sampleState()}, &stubPolicy{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/intake", `{"amount":"lots"}`)
	assertHTTPError(t, h.AddWater(c), http.StatusBadRequest)

	c, _ = newJSONContext(e, http.MethodPost, "/v1/intake", `{}`)
	assertHTTPError(t, h.AddWater(c), http.StatusUnprocessableEntity)
}

func TestHydrationHandler_Adjust(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: sampleState()}
	h := NewHydrationHandler(store, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/intake/adjustments", `{"amount":-200,"note":"spilled"}`)
	if err := h.Adjust(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || store.addedAmount != -200 || store.adjustNote != "spilled" {
		t.Fatalf("adjustment not forwarded: code=%d %d %q", rec.Code, store.addedAmount, store.adjustNote)
	}
}

func TestHydrationHandler_SetTarget(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: sampleState()}
	h := NewHydrationHandler(store, &stubPolicy{})
	manual := metrics.TargetSetsTotal.WithLabelValues(domain.SourceManual)
	before := testutil.ToFloat64(manual)

	c, rec := newJSONContext(e, http.MethodPut, "/v1/target", `{"dailyTarget":2300}`)
	if err := h.SetTarget(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || store.target != 2300 {
		t.Fatalf("target not set: code=%d target=%d", rec.Code, store.target)
	}
	if got := testutil.ToFloat64(manual) - before; got != 1 {
		t.Fatalf("expected one manual target set recorded, got %v", got)
	}

	c, _ = newJSONContext(e, http.MethodPut, "/v1/target", `{"dailyTarget":0}`)
	assertHTTPError(t, h.SetTarget(c), http.StatusUnprocessableEntity)
}

func TestHydrationHandler_Recommendation(t *testing.T) {
	e := newEcho()
	h := NewHydrationHandler(&stubStore{state: sampleState()}, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/target/recommendation?weight=60&gender=male", "")
	if err := h.Recommendation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp recommendationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.DailyTarget != 2300 {
		t.Fatalf("expected 2300, got %d", resp.DailyTarget)
	}

	c, _ = newJSONContext(e, http.MethodGet, "/v1/target/recommendation?weight=60&gender=other", "")
	assertHTTPError(t, h.Recommendation(c), http.StatusUnprocessableEntity)
}

func TestHydrationHandler_UpdateProfile(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: sampleState()}
	h := NewHydrationHandler(store, &stubPolicy{})

	c, rec := newJSONContext(e, http.MethodPatch, "/v1/profile", `{"weight":72.5,"gender":"female"}`)
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.patch.Name != nil || store.patch.HasOnboarded != nil {
		t.Fatalf("absent fields must stay nil: %+v", store.patch)
	}
	if store.patch.Weight == nil || *store.patch.Weight != 72.5 || *store.patch.Gender != domain.GenderFemale {
		t.Fatalf("patch not mapped: %+v", store.patch)
	}
}

func TestHydrationHandler_Onboard(t *testing.T) {
	e := newEcho()
	var got ports.OnboardingInput
	policy := &stubPolicy{
		onboardFn: func(_ context.Context, in ports.OnboardingInput) (*domain.State, error) {
			got = in
			st := sampleState()
			st.DailyTarget = 2100
			st.UserData = domain.Profile{Name: in.Name, Weight: in.Weight, Gender: in.Gender, HasOnboarded: true}
			return st, nil
		},
	}
	h := NewHydrationHandler(&stubStore{state: sampleState()}, policy)
	onboarding := metrics.TargetSetsTotal.WithLabelValues(domain.SourceOnboarding)
	before := testutil.ToFloat64(onboarding)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/onboarding", `{"name":"Rani","weight":60,"gender":"female"}`)
	if err := h.Onboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := testutil.ToFloat64(onboarding) - before; got != 1 {
		t.Fatalf("expected one onboarding target set recorded, got %v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Name != "Rani" || got.Weight != 60 || got.Gender != domain.GenderFemale {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp stateResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.DailyTarget != 2100 || !resp.UserData.HasOnboarded || resp.UserData.Gender == nil || *resp.UserData.Gender != "female" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHydrationHandler_Onboard_Invalid(t *testing.T) {
	e := newEcho()
	policy := &stubPolicy{
		onboardFn: func(context.Context, ports.OnboardingInput) (*domain.State, error) {
			t.Fatal("policy must not be called with invalid input")
			return nil, nil
		},
	}
	h := NewHydrationHandler(&stubStore{state: sampleState()}, policy)

	for _, body := range []string{
		`{"name":"","weight":60,"gender":"female"}`,
		`{"name":"A","weight":0,"gender":"female"}`,
		`{"name":"A","weight":60}`,
	} {
		c, _ := newJSONContext(e, http.MethodPost, "/v1/onboarding", body)
		assertHTTPError(t, h.Onboard(c), http.StatusUnprocessableEntity)
	}
}
