package ports

import (
	"context"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

// HydrationStore is the read/write surface the view layer consumes.
type HydrationStore interface {
	Hydrated() bool
	Snapshot() (*domain.State, error)

	AddWater(ctx context.Context, amount int) (*domain.State, error)
	Adjust(ctx context.Context, amount int, note string) (*domain.State, error)
	ResetIntake(ctx context.Context) (*domain.State, error)
	SetTarget(target int) (*domain.State, error)
	SetUserData(patch domain.ProfilePatch) (*domain.State, error)
	ResetDaily() (*domain.State, error)
	RollDay() (*domain.State, error)
	AddActivityBonus() (*domain.State, error)
	ApplyHeat(temperatureC int) (*domain.State, bool, error)
	Today() string
}

// OnboardingInput is the validated onboarding form.
type OnboardingInput struct {
	Name   string
	Weight float64
	Gender domain.Gender
}

// WeatherInput carries what the device knows when it asks for a context refresh.
type WeatherInput struct {
	PermissionGranted bool
	Coordinates       domain.Coordinates
}

// WeatherOutcome is the typed result of a context refresh.
type WeatherOutcome struct {
	Status       domain.WeatherStatus
	Report       *domain.WeatherReport
	Reason       string
	IsHot        bool
	TargetBumped bool
	DailyTarget  int
}

// TargetPolicy applies context-driven target adjustments.
type TargetPolicy interface {
	Onboard(ctx context.Context, in OnboardingInput) (*domain.State, error)
	RefreshWeather(ctx context.Context, in WeatherInput) (*WeatherOutcome, error)
	ApplyActivity(ctx context.Context) (*domain.State, error)
	IngestSamples(ctx context.Context, samples []domain.ActivitySample) (*ActivityResult, error)
}

// ActivityResult summarises a batch of samples fed to the detector.
type ActivityResult struct {
	GoalsReached int
	Points       float64
	CoolingDown  bool
	DailyTarget  int
}

// HistoryReader exposes the aggregated views.
type HistoryReader interface {
	Weekly() (*domain.WeeklySummary, error)
	TodayLog() ([]domain.LogEntry, error)
}
