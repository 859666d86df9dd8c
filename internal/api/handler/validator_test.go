package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"missing amount", &addWaterRequest{}, "amount is required"},
		{"zero target", &setTargetRequest{DailyTarget: -1}, "dailyTarget must be greater than 0"},
		{"bad gender", &onboardingRequest{Name: "A", Weight: 60, Gender: "other"}, "gender must be one of: male female"},
		{"heavy", &onboardingRequest{Name: "A", Weight: 900, Gender: "male"}, "weight must be at most 500"},
		{"latitude", &weatherRequest{Lat: 91}, "lat must be at most 90"},
		{"empty batch", &activityBatchRequest{Samples: []activitySampleRequest{}}, "samples must contain at least 1 item(s)"},
		{"long note", &adjustmentRequest{Amount: 1, Note: strings.Repeat("x", 141)}, "note must be at most 140 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	negative := &addWaterRequest{Amount: -250}
	if err := v.Validate(negative); err != nil {
		t.Fatalf("negative amounts must pass validation, got %v", err)
	}
	if err := v.Validate(&profilePatchRequest{}); err != nil {
		t.Fatalf("empty patch must pass validation, got %v", err)
	}
}
