package handler

import (
	"math"
	"time"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// --- Request → Service input ---

func toProfilePatch(req profilePatchRequest) domain.ProfilePatch {
	patch := domain.ProfilePatch{
		Name:         req.Name,
		Weight:       req.Weight,
		HasOnboarded: req.HasOnboarded,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		patch.Gender = &g
	}
	return patch
}

func toOnboardingInput(req onboardingRequest) ports.OnboardingInput {
	return ports.OnboardingInput{
		Name:   req.Name,
		Weight: req.Weight,
		Gender: domain.Gender(req.Gender),
	}
}

func toWeatherInput(req weatherRequest) ports.WeatherInput {
	return ports.WeatherInput{
		PermissionGranted: req.PermissionGranted,
		Coordinates:       domain.Coordinates{Lat: req.Lat, Lng: req.Lng},
	}
}

func toSamples(reqs []activitySampleRequest) []domain.ActivitySample {
	out := make([]domain.ActivitySample, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, domain.ActivitySample{X: r.X, Y: r.Y, Z: r.Z, At: r.At})
	}
	return out
}

// --- Domain → Response ---

func toStateResponse(st *domain.State) stateResponse {
	return stateResponse{
		DailyTarget:   st.DailyTarget,
		CurrentIntake: st.CurrentIntake,
		Percentage:    percentage(st.CurrentIntake, st.DailyTarget),
		ActiveDay:     st.ActiveDay,
		History:       toEntryResponses(st.History),
		UserData:      toProfileResponse(st.UserData),
	}
}

// percentage is the rounded share of the target reached; it may exceed 100.
func percentage(current, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(target) * 100))
}

func toProfileResponse(p domain.Profile) profileResponse {
	resp := profileResponse{
		Name:         p.Name,
		Weight:       p.Weight,
		HasOnboarded: p.HasOnboarded,
	}
	if p.Gender != domain.GenderUnset {
		g := string(p.Gender)
		resp.Gender = &g
	}
	return resp
}

func toEntryResponses(entries []domain.LogEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		kind := e.Kind
		if kind == "" {
			kind = domain.KindIntake
		}
		out = append(out, entryResponse{
			ID:     e.ID,
			Date:   e.Date.UTC().Truncate(time.Millisecond),
			Amount: e.Amount,
			Kind:   string(kind),
			Note:   e.Note,
		})
	}
	return out
}

func toWeatherResponse(out *ports.WeatherOutcome) weatherResponse {
	resp := weatherResponse{
		Status:       string(out.Status),
		Reason:       out.Reason,
		IsHot:        out.IsHot,
		TargetBumped: out.TargetBumped,
		DailyTarget:  out.DailyTarget,
	}
	if out.Report != nil {
		resp.Weather = &weatherReportResponse{
			TemperatureC: out.Report.TemperatureC,
			Condition:    out.Report.Condition,
			City:         out.Report.City,
		}
	}
	return resp
}

func toWeeklyResponse(w *domain.WeeklySummary) weeklyResponse {
	days := make([]daySummaryResponse, 0, len(w.Days))
	for _, d := range w.Days {
		days = append(days, daySummaryResponse{
			Date:      d.Date,
			Label:     d.Label,
			Total:     d.Total,
			Frequency: d.Frequency,
			GoalMet:   d.GoalMet,
		})
	}
	return weeklyResponse{
		Days:             days,
		DailyTarget:      w.DailyTarget,
		AverageIntake:    w.AverageIntake,
		AverageFrequency: w.AverageFrequency,
	}
}
