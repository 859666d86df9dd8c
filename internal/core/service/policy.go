package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// PolicyOptions configures TargetPolicy.
type PolicyOptions struct {
	// HeatOncePerDay limits the heat bump to one grant per calendar day.
	HeatOncePerDay bool
	// Language drives title-casing of the weather condition text.
	Language language.Tag
}

// TargetPolicy applies the heat and activity rules to the store in response
// to external signals.
type TargetPolicy struct {
	store    ports.HydrationStore
	weather  ports.WeatherProvider
	ledger   ports.BonusLedger
	detector *ActivityDetector
	opts     PolicyOptions
	titler   cases.Caser
	log      zerolog.Logger
}

func NewTargetPolicy(
	store ports.HydrationStore,
	weather ports.WeatherProvider,
	ledger ports.BonusLedger,
	detector *ActivityDetector,
	opts PolicyOptions,
	log zerolog.Logger,
) *TargetPolicy {
	return &TargetPolicy{
		store:    store,
		weather:  weather,
		ledger:   ledger,
		detector: detector,
		opts:     opts,
		titler:   cases.Title(opts.Language),
		log:      log,
	}
}

// Onboard seeds the target from the profile and marks the user onboarded.
func (p *TargetPolicy) Onboard(_ context.Context, in ports.OnboardingInput) (*domain.State, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProfile)
	}
	if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return nil, fmt.Errorf("%w: weight must be a positive number", domain.ErrInvalidProfile)
	}
	if in.Gender != domain.GenderMale && in.Gender != domain.GenderFemale {
		return nil, fmt.Errorf("%w: gender must be male or female", domain.ErrInvalidProfile)
	}

	target := domain.CalculateTarget(in.Weight, in.Gender)
	if _, err := p.store.SetTarget(target); err != nil {
		return nil, fmt.Errorf("onboard: %w", err)
	}

	onboarded := true
	state, err := p.store.SetUserData(domain.ProfilePatch{
		Name:         &name,
		Weight:       &in.Weight,
		Gender:       &in.Gender,
		HasOnboarded: &onboarded,
	})
	if err != nil {
		return nil, fmt.Errorf("onboard: %w", err)
	}

	p.log.Info().Int("daily_target", target).Str("gender", string(in.Gender)).Msg("user onboarded")
	return state, nil
}

// RefreshWeather performs one weather lookup and applies the heat rule once.
// When ctx is cancelled during the lookup the result is discarded.
func (p *TargetPolicy) RefreshWeather(ctx context.Context, in ports.WeatherInput) (*ports.WeatherOutcome, error) {
	if !in.PermissionGranted {
		return &ports.WeatherOutcome{
			Status: domain.WeatherStatusPermissionDenied,
			Reason: domain.ErrLocationPermissionDenied.Error(),
		}, nil
	}

	report, err := p.weather.Current(ctx, in.Coordinates)
	if ctxErr := ctx.Err(); ctxErr != nil {
		p.log.Debug().Err(ctxErr).Msg("weather result discarded, consumer gone")
		return nil, ctxErr
	}
	if err != nil {
		reason := err.Error()
		var we *domain.WeatherError
		if errors.As(err, &we) {
			reason = we.Message
		}
		p.log.Warn().Err(err).Msg("weather lookup failed")
		return &ports.WeatherOutcome{Status: domain.WeatherStatusUnavailable, Reason: reason}, nil
	}

	report.Condition = p.titler.String(report.Condition)
	out := &ports.WeatherOutcome{
		Status: domain.WeatherStatusOK,
		Report: &report,
		IsHot:  report.TemperatureC > domain.HeatThresholdC,
	}

	state, bumped, err := p.applyHeat(ctx, report.TemperatureC)
	if err != nil {
		return nil, err
	}
	out.TargetBumped = bumped
	out.DailyTarget = state.DailyTarget
	return out, nil
}

func (p *TargetPolicy) applyHeat(ctx context.Context, temperatureC int) (*domain.State, bool, error) {
	state, err := p.store.Snapshot()
	if err != nil {
		return nil, false, err
	}
	if _, wouldBump := domain.HeatBump(state.DailyTarget, temperatureC); !wouldBump {
		return state, false, nil
	}

	var claimedDay string
	if p.opts.HeatOncePerDay && p.ledger != nil {
		day := p.store.Today()
		claimed, err := p.ledger.Claim(ctx, domain.SourceHeat, day)
		switch {
		case err != nil:
			p.log.Warn().Err(err).Str("day", day).Msg("heat ledger check failed, applying bump anyway")
		case !claimed:
			p.log.Debug().Str("day", day).Msg("heat bonus already granted today")
			return state, false, nil
		default:
			claimedDay = day
		}
	}

	state, bumped, err := p.store.ApplyHeat(temperatureC)
	if err != nil {
		p.releaseHeat(ctx, claimedDay)
		return nil, false, err
	}
	if !bumped {
		// The target reached the ceiling after the claim was taken.
		p.releaseHeat(ctx, claimedDay)
		return state, false, nil
	}
	p.log.Info().Int("temperature_c", temperatureC).Int("daily_target", state.DailyTarget).Msg("heat bonus applied")
	return state, true, nil
}

func (p *TargetPolicy) releaseHeat(ctx context.Context, day string) {
	if day == "" {
		return
	}
	if err := p.ledger.Release(ctx, domain.SourceHeat, day); err != nil {
		p.log.Warn().Err(err).Str("day", day).Msg("heat ledger release failed")
	}
}

// ApplyActivity grants one activity bonus.
func (p *TargetPolicy) ApplyActivity(_ context.Context) (*domain.State, error) {
	state, err := p.store.AddActivityBonus()
	if err != nil {
		return nil, err
	}
	p.log.Info().Int("daily_target", state.DailyTarget).Msg("activity bonus applied")
	return state, nil
}

// IngestSamples feeds samples to the detector and grants a bonus for every
// completed cycle.
func (p *TargetPolicy) IngestSamples(ctx context.Context, samples []domain.ActivitySample) (*ports.ActivityResult, error) {
	if !p.store.Hydrated() {
		return nil, domain.ErrNotReady
	}

	res := &ports.ActivityResult{}
	for _, s := range samples {
		if !p.detector.Observe(s) {
			continue
		}
		state, err := p.ApplyActivity(ctx)
		if err != nil {
			return nil, err
		}
		res.GoalsReached++
		res.DailyTarget = state.DailyTarget
	}

	res.Points, res.CoolingDown = p.detector.Progress()
	if res.GoalsReached == 0 {
		state, err := p.store.Snapshot()
		if err != nil {
			return nil, err
		}
		res.DailyTarget = state.DailyTarget
	}
	return res, nil
}
