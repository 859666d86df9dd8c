package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

func TestContextHandler_Weather_HotDay(t *testing.T) {
	e := newEcho()
	var got ports.WeatherInput
	policy := &stubPolicy{
		weatherFn: func(_ context.Context, in ports.WeatherInput) (*ports.WeatherOutcome, error) {
			got = in
			return &ports.WeatherOutcome{
				Status:       domain.WeatherStatusOK,
				Report:       &domain.WeatherReport{TemperatureC: 33, Condition: "Scattered Clouds", City: "Jakarta"},
				IsHot:        true,
				TargetBumped: true,
				DailyTarget:  2800,
			}, nil
		},
	}
	h := NewContextHandler(policy)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/context/weather", `{"permissionGranted":true,"lat":-6.2,"lng":106.8}`)
	if err := h.Weather(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !got.PermissionGranted || got.Coordinates.Lat != -6.2 || got.Coordinates.Lng != 106.8 {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp weatherResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "ok" || !resp.TargetBumped || resp.DailyTarget != 2800 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Weather == nil || resp.Weather.TemperatureC != 33 || resp.Weather.City != "Jakarta" {
		t.Fatalf("unexpected weather: %+v", resp.Weather)
	}
}

func TestContextHandler_Weather_PermissionDenied(t *testing.T) {
	e := newEcho()
	policy := &stubPolicy{
		weatherFn: func(context.Context, ports.WeatherInput) (*ports.WeatherOutcome, error) {
			return &ports.WeatherOutcome{
				Status: domain.WeatherStatusPermissionDenied,
				Reason: domain.ErrLocationPermissionDenied.Error(),
			}, nil
		},
	}
	h := NewContextHandler(policy)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/context/weather", `{"permissionGranted":false}`)
	if err := h.Weather(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("a denied permission is not an HTTP error, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "permission_denied" {
		t.Fatalf("unexpected status: %+v", resp)
	}
	if _, ok := resp["weather"]; ok {
		t.Fatalf("weather must be omitted when denied: %+v", resp)
	}
}

func TestContextHandler_Weather_InvalidCoordinates(t *testing.T) {
	e := newEcho()
	h := NewContextHandler(&stubPolicy{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/context/weather", `{"permissionGranted":true,"lat":120,"lng":0}`)
	assertHTTPError(t, h.Weather(c), http.StatusUnprocessableEntity)
}

func TestContextHandler_Weather_NotReady(t *testing.T) {
	e := newEcho()
	policy := &stubPolicy{
		weatherFn: func(context.Context, ports.WeatherInput) (*ports.WeatherOutcome, error) {
			return nil, domain.ErrNotReady
		},
	}
	h := NewContextHandler(policy)

	c, _ := newJSONContext(e, http.MethodPost, "/v1/context/weather", `{"permissionGranted":true,"lat":1,"lng":1}`)
	if err := h.Weather(c); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestContextHandler_ActivitySamples(t *testing.T) {
	e := newEcho()
	var got []domain.ActivitySample
	policy := &stubPolicy{
		ingestFn: func(_ context.Context, samples []domain.ActivitySample) (*ports.ActivityResult, error) {
			got = samples
			return &ports.ActivityResult{GoalsReached: 1, Points: 0, CoolingDown: true, DailyTarget: 2400}, nil
		},
	}
	h := NewContextHandler(policy)

	body := `{"samples":[{"x":1.2,"y":0.9,"z":1.1,"at":"2026-10-16T10:00:00Z"},{"x":0,"y":0,"z":1,"at":"2026-10-16T10:00:00.1Z"}]}`
	c, rec := newJSONContext(e, http.MethodPost, "/v1/activity/samples", body)
	if err := h.ActivitySamples(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(got) != 2 || got[0].X != 1.2 || !got[1].At.Equal(time.Date(2026, 10, 16, 10, 0, 0, 100_000_000, time.UTC)) {
		t.Fatalf("samples not mapped in order: %+v", got)
	}

	var resp activityResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.GoalsReached != 1 || !resp.CoolingDown || resp.DailyTarget != 2400 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestContextHandler_ActivitySamples_Empty(t *testing.T) {
	e := newEcho()
	h := NewContextHandler(&stubPolicy{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/activity/samples", `{"samples":[]}`)
	assertHTTPError(t, h.ActivitySamples(c), http.StatusUnprocessableEntity)
}
