package domain

import (
	"errors"
	"fmt"
)

var ErrLocationPermissionDenied = errors.New("location permission denied")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WeatherReport is a successful current-weather lookup.
type WeatherReport struct {
	TemperatureC int
	Condition    string
	City         string
}

// WeatherErrorKind classifies lookup failures.
type WeatherErrorKind string

const (
	WeatherCredentialMissing WeatherErrorKind = "credential_missing"
	WeatherAPIError          WeatherErrorKind = "api_error"
	WeatherOffline           WeatherErrorKind = "offline"
)

// WeatherError is the typed failure result of a weather lookup.
type WeatherError struct {
	Kind    WeatherErrorKind
	Message string
	Err     error
}

func (e *WeatherError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("weather %s: %s", e.Kind, e.Message)
}

func (e *WeatherError) Unwrap() error { return e.Err }

// WeatherStatus is what the view receives after a context refresh.
type WeatherStatus string

const (
	WeatherStatusOK               WeatherStatus = "ok"
	WeatherStatusPermissionDenied WeatherStatus = "permission_denied"
	WeatherStatusUnavailable      WeatherStatus = "unavailable"
)
