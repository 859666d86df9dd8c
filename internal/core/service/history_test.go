package service

import (
	"errors"
	"testing"
	"time"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

type stubSnapshotter struct {
	state *domain.State
	err   error
}

func (s *stubSnapshotter) Snapshot() (*domain.State, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.state.Clone(), nil
}

func at(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, testLoc)
}

func TestBuildWeekly_GoalsAndAverages(t *testing.T) {
	// Thursday 2026-10-15 is "today"; Tue/Wed/Thu carry entries.
	st := domain.NewState()
	st.DailyTarget = 2000
	st.History = []domain.LogEntry{
		{Date: at(15, 20), Amount: 500, Kind: domain.KindIntake},
		{Date: at(15, 9), Amount: 2000, Kind: domain.KindIntake},
		{Date: at(14, 18), Amount: 900, Kind: domain.KindIntake},
		{Date: at(14, 8), Amount: 900, Kind: domain.KindIntake},
		{Date: at(13, 12), Amount: 1100, Kind: domain.KindIntake},
		{Date: at(13, 7), Amount: 1000, Kind: domain.KindIntake},
	}

	got := BuildWeekly(st, at(15, 21), testLoc)

	if len(got.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got.Days))
	}
	if got.Days[0].Date != "2026-10-09" || got.Days[6].Date != "2026-10-15" {
		t.Fatalf("unexpected window: %s .. %s", got.Days[0].Date, got.Days[6].Date)
	}

	want := map[string]struct {
		total   int
		goalMet bool
		label   string
	}{
		"2026-10-13": {2100, true, "Tue"},
		"2026-10-14": {1800, false, "Wed"},
		"2026-10-15": {2500, true, "Thu"},
	}
	for _, d := range got.Days {
		w, ok := want[d.Date]
		if !ok {
			if d.Total != 0 || d.Frequency != 0 || d.GoalMet {
				t.Fatalf("empty day %s has data: %+v", d.Date, d)
			}
			continue
		}
		if d.Total != w.total || d.GoalMet != w.goalMet || d.Label != w.label || d.Frequency != 2 {
			t.Fatalf("day %s: got %+v, want %+v", d.Date, d, w)
		}
	}

	if got.AverageIntake != 914 {
		t.Fatalf("expected average 914, got %d", got.AverageIntake)
	}
	if got.AverageFrequency != 1 {
		t.Fatalf("expected average frequency 1, got %d", got.AverageFrequency)
	}
	if got.DailyTarget != 2000 {
		t.Fatalf("expected target 2000, got %d", got.DailyTarget)
	}
}

func TestBuildWeekly_AdjustmentsCountTowardTotalOnly(t *testing.T) {
	st := domain.NewState()
	st.DailyTarget = 1000
	st.History = []domain.LogEntry{
		{Date: at(15, 11), Amount: -500, Kind: domain.KindAdjustment},
		{Date: at(15, 10), Amount: 1200, Kind: domain.KindIntake},
	}

	got := BuildWeekly(st, at(15, 12), testLoc)
	today := got.Days[6]
	if today.Total != 700 || today.Frequency != 1 || today.GoalMet {
		t.Fatalf("unexpected bucket: %+v", today)
	}
}

func TestBuildWeekly_BucketsByLocalDay(t *testing.T) {
	// 23:30 local on the 14th is 16:30 UTC the same day, but 00:30 local on
	// the 15th is still the 14th in UTC.
	st := domain.NewState()
	st.History = []domain.LogEntry{
		{Date: time.Date(2026, 10, 15, 0, 30, 0, 0, testLoc).UTC(), Amount: 300, Kind: domain.KindIntake},
		{Date: time.Date(2026, 10, 14, 23, 30, 0, 0, testLoc).UTC(), Amount: 200, Kind: domain.KindIntake},
	}

	got := BuildWeekly(st, at(15, 12), testLoc)
	if got.Days[5].Total != 200 || got.Days[6].Total != 300 {
		t.Fatalf("entries bucketed in the wrong zone: %d / %d", got.Days[5].Total, got.Days[6].Total)
	}
}

func TestBuildWeekly_EmptyHistory(t *testing.T) {
	got := BuildWeekly(domain.NewState(), at(15, 12), testLoc)
	for _, d := range got.Days {
		if d.Total != 0 || d.Frequency != 0 || d.GoalMet {
			t.Fatalf("expected empty day, got %+v", d)
		}
	}
	if got.AverageIntake != 0 || got.AverageFrequency != 0 {
		t.Fatalf("expected zero averages, got %d/%d", got.AverageIntake, got.AverageFrequency)
	}
}

func TestHistoryAggregator_TodayLog(t *testing.T) {
	st := domain.NewState()
	st.History = []domain.LogEntry{
		{ID: "c", Date: at(15, 20), Amount: 300},
		{ID: "b", Date: at(15, 9), Amount: 200},
		{ID: "a", Date: at(14, 22), Amount: 100},
	}
	agg := NewHistoryAggregator(&stubSnapshotter{state: st}, testLoc, func() time.Time { return at(15, 21) })

	entries, err := agg.TodayLog()
	if err != nil {
		t.Fatalf("TodayLog: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "c" || entries[1].ID != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestHistoryAggregator_PropagatesNotReady(t *testing.T) {
	agg := NewHistoryAggregator(&stubSnapshotter{err: domain.ErrNotReady}, testLoc, nil)

	if _, err := agg.Weekly(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := agg.TodayLog(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}
