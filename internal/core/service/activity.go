package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

// ActivityConfig holds the accumulation parameters of the detector.
type ActivityConfig struct {
	GoalPoints        float64
	MovementThreshold float64 // in g, deviation from resting 1g
	Gain              float64 // points per active sample
	Decay             float64 // points lost per idle sample
	Cooldown          time.Duration
}

// DefaultActivityConfig matches a 200ms sampling interval.
func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		GoalPoints:        100,
		MovementThreshold: 0.5,
		Gain:              2,
		Decay:             0.5,
		Cooldown:          3 * time.Second,
	}
}

// ActivityDetector accumulates motion intensity from accelerometer samples
// and reports a single goal-reached event per cycle, followed by a cooldown
// during which samples are ignored.
type ActivityDetector struct {
	cfg ActivityConfig
	now func() time.Time
	log zerolog.Logger

	mu        sync.Mutex
	points    float64
	coolUntil time.Time
	lastAt    time.Time
}

func NewActivityDetector(cfg ActivityConfig, log zerolog.Logger) *ActivityDetector {
	def := DefaultActivityConfig()
	if cfg.GoalPoints <= 0 {
		cfg.GoalPoints = def.GoalPoints
	}
	if cfg.MovementThreshold <= 0 {
		cfg.MovementThreshold = def.MovementThreshold
	}
	if cfg.Gain <= 0 {
		cfg.Gain = def.Gain
	}
	if cfg.Decay < 0 {
		cfg.Decay = def.Decay
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &ActivityDetector{cfg: cfg, now: time.Now, log: log}
}

// Observe feeds one sample and reports whether it completed a cycle.
func (d *ActivityDetector) Observe(s domain.ActivitySample) bool {
	at := s.At
	if at.IsZero() {
		at = d.now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastAt = at
	if at.Before(d.coolUntil) {
		return false
	}

	force := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	movement := math.Abs(force - 1)

	if movement <= d.cfg.MovementThreshold {
		d.points = math.Max(0, d.points-d.cfg.Decay)
		return false
	}

	d.points += d.cfg.Gain
	if d.points < d.cfg.GoalPoints {
		return false
	}

	d.points = 0
	d.coolUntil = at.Add(d.cfg.Cooldown)
	d.log.Info().Time("cooldown_until", d.coolUntil).Msg("activity goal reached")
	return true
}

// Progress returns the accumulated points and whether the detector is
// cooling down as of the last observed sample.
func (d *ActivityDetector) Progress() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.points, d.lastAt.Before(d.coolUntil)
}

// Run consumes samples until ctx is done or the channel is closed, calling
// onGoal for every completed cycle.
func (d *ActivityDetector) Run(ctx context.Context, samples <-chan domain.ActivitySample, onGoal func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-samples:
			if !ok {
				return
			}
			if d.Observe(s) {
				onGoal()
			}
		}
	}
}
