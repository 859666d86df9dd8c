package service

import (
	"math"
	"time"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

const weekDays = 7

type snapshotter interface {
	Snapshot() (*domain.State, error)
}

// HistoryAggregator derives chart data from the raw log on every call.
type HistoryAggregator struct {
	store snapshotter
	loc   *time.Location
	now   func() time.Time
}

func NewHistoryAggregator(store snapshotter, loc *time.Location, now func() time.Time) *HistoryAggregator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &HistoryAggregator{store: store, loc: loc, now: now}
}

// Weekly returns the rollup of the last seven calendar days.
func (h *HistoryAggregator) Weekly() (*domain.WeeklySummary, error) {
	st, err := h.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return BuildWeekly(st, h.now(), h.loc), nil
}

// TodayLog returns today's entries, newest first.
func (h *HistoryAggregator) TodayLog() ([]domain.LogEntry, error) {
	st, err := h.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return EntriesOn(st, h.now().In(h.loc).Format(domain.DayLayout), h.loc), nil
}

type dayBucket struct {
	total     int
	frequency int
}

// BuildWeekly buckets the log by local calendar day for the seven days ending
// on now. Days are compared against the current target. Adjustments count
// toward totals but not toward frequency.
func BuildWeekly(st *domain.State, now time.Time, loc *time.Location) *domain.WeeklySummary {
	buckets := make(map[string]*dayBucket)
	for _, e := range st.History {
		key := e.Day(loc)
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{}
			buckets[key] = b
		}
		b.total += e.Amount
		if e.IsIntake() {
			b.frequency++
		}
	}

	local := now.In(loc)
	out := &domain.WeeklySummary{
		Days:        make([]domain.DaySummary, 0, weekDays),
		DailyTarget: st.DailyTarget,
	}

	var sumTotal, sumFreq int
	for i := weekDays - 1; i >= 0; i-- {
		day := time.Date(local.Year(), local.Month(), local.Day()-i, 0, 0, 0, 0, loc)
		key := day.Format(domain.DayLayout)

		var b dayBucket
		if found, ok := buckets[key]; ok {
			b = *found
		}
		sumTotal += b.total
		sumFreq += b.frequency

		out.Days = append(out.Days, domain.DaySummary{
			Date:      key,
			Label:     day.Weekday().String()[:3],
			Total:     b.total,
			Frequency: b.frequency,
			GoalMet:   b.total >= st.DailyTarget,
		})
	}

	out.AverageIntake = int(math.Round(float64(sumTotal) / weekDays))
	out.AverageFrequency = int(math.Round(float64(sumFreq) / weekDays))
	return out
}

// EntriesOn returns the entries whose local calendar day is day, preserving
// the log's newest-first order.
func EntriesOn(st *domain.State, day string, loc *time.Location) []domain.LogEntry {
	out := make([]domain.LogEntry, 0)
	for _, e := range st.History {
		if e.Day(loc) == day {
			out = append(out, e)
		}
	}
	return out
}
