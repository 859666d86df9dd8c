package domain

import "math"

const (
	mlPerKg          = 35
	maleExtraMl      = 200
	targetRoundingMl = 50

	// BonusMl is the increment granted by both the heat and the activity rule.
	BonusMl = 300
	// HeatThresholdC is the temperature above which the heat rule fires.
	HeatThresholdC = 30
	// HeatCeilingMl caps the heat rule. The activity rule has no ceiling.
	HeatCeilingMl = 3000
)

// Sources of a target change.
const (
	SourceHeat       = "heat"
	SourceActivity   = "activity"
	SourceOnboarding = "onboarding"
	SourceManual     = "manual"
)

// CalculateTarget derives the initial daily target from body weight and gender:
// 35 ml per kg, +200 ml for male, rounded up to the next multiple of 50.
func CalculateTarget(weightKg float64, gender Gender) int {
	base := weightKg * mlPerKg
	if gender == GenderMale {
		base += maleExtraMl
	}
	return int(math.Ceil(base/targetRoundingMl)) * targetRoundingMl
}

// HeatBump returns the target after applying the heat rule to a single
// weather reading, and whether it changed.
func HeatBump(target, temperatureC int) (int, bool) {
	if temperatureC > HeatThresholdC && target < HeatCeilingMl {
		return target + BonusMl, true
	}
	return target, false
}

// ActivityBump returns the target after one goal-reached event.
func ActivityBump(target int) int {
	return target + BonusMl
}
