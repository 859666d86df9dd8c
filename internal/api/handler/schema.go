package handler

import "time"

// errorResponse mirrors the envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type addWaterRequest struct {
	// Negative amounts are accepted and recorded unchanged.
	Amount int `json:"amount" validate:"required"`
}

type adjustmentRequest struct {
	Amount int    `json:"amount" validate:"required"`
	Note   string `json:"note"   validate:"max=140"`
}

type setTargetRequest struct {
	DailyTarget int `json:"dailyTarget" validate:"required,gt=0"`
}

type recommendationQuery struct {
	Weight float64 `query:"weight" validate:"required,gt=0"`
	Gender string  `query:"gender" validate:"omitempty,oneof=male female"`
}

type profilePatchRequest struct {
	Name         *string  `json:"name"         validate:"omitempty,max=80"`
	Weight       *float64 `json:"weight"       validate:"omitempty,gt=0"`
	Gender       *string  `json:"gender"       validate:"omitempty,oneof=male female"`
	HasOnboarded *bool    `json:"hasOnboarded"`
}

type onboardingRequest struct {
	Name   string  `json:"name"   validate:"required,max=80"`
	Weight float64 `json:"weight" validate:"required,gt=0,lte=500"`
	Gender string  `json:"gender" validate:"required,oneof=male female"`
}

type weatherRequest struct {
	PermissionGranted bool    `json:"permissionGranted"`
	Lat               float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng               float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type activitySampleRequest struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	Z  float64   `json:"z"`
	At time.Time `json:"at"`
}

type activityBatchRequest struct {
	Samples []activitySampleRequest `json:"samples" validate:"required,min=1,max=1000"`
}

// --- Responses ---

type entryResponse struct {
	ID     string    `json:"id,omitempty"`
	Date   time.Time `json:"date"`
	Amount int       `json:"amount"`
	Kind   string    `json:"kind"`
	Note   string    `json:"note,omitempty"`
}

type profileResponse struct {
	Name         string  `json:"name,omitempty"`
	Weight       float64 `json:"weight"`
	Gender       *string `json:"gender"`
	HasOnboarded bool    `json:"hasOnboarded"`
}

type stateResponse struct {
	DailyTarget   int             `json:"dailyTarget"`
	CurrentIntake int             `json:"currentIntake"`
	Percentage    int             `json:"percentage"`
	ActiveDay     string          `json:"activeDay,omitempty"`
	History       []entryResponse `json:"history"`
	UserData      profileResponse `json:"userData"`
}

type recommendationResponse struct {
	DailyTarget int `json:"dailyTarget"`
}

type weatherReportResponse struct {
	TemperatureC int    `json:"temperatureC"`
	Condition    string `json:"condition"`
	City         string `json:"city"`
}

type weatherResponse struct {
	Status       string                 `json:"status"`
	Weather      *weatherReportResponse `json:"weather,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
	IsHot        bool                   `json:"isHot"`
	TargetBumped bool                   `json:"targetBumped"`
	DailyTarget  int                    `json:"dailyTarget,omitempty"`
}

type activityResponse struct {
	GoalsReached int     `json:"goalsReached"`
	Points       float64 `json:"points"`
	CoolingDown  bool    `json:"coolingDown"`
	DailyTarget  int     `json:"dailyTarget"`
}

type daySummaryResponse struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Total     int    `json:"total"`
	Frequency int    `json:"frequency"`
	GoalMet   bool   `json:"goalMet"`
}

type weeklyResponse struct {
	Days             []daySummaryResponse `json:"days"`
	DailyTarget      int                  `json:"dailyTarget"`
	AverageIntake    int                  `json:"averageIntake"`
	AverageFrequency int                  `json:"averageFrequency"`
}

type todayResponse struct {
	Date    string          `json:"date"`
	Entries []entryResponse `json:"entries"`
}
