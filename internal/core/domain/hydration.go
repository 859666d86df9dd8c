package domain

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	// DefaultDailyTarget is the target used before onboarding computes one.
	DefaultDailyTarget = 2500

	// DayLayout is the calendar-day key format used across the core.
	DayLayout = "2006-01-02"
)

var (
	ErrNotReady        = errors.New("hydration state not loaded yet")
	ErrPersistenceLoad = errors.New("load persisted state")
	ErrPersistenceSave = errors.New("save persisted state")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrStateNotFound   = errors.New("persisted state not found")
)

// Gender is the profile gender. The zero value means "not set" and is
// serialised as JSON null.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known values, including unset.
func (g Gender) Valid() bool {
	switch g {
	case GenderUnset, GenderMale, GenderFemale:
		return true
	}
	return false
}

func (g Gender) MarshalJSON() ([]byte, error) {
	if g == GenderUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(g))
}

func (g *Gender) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*g = GenderUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Unknown values are kept as decoded; State.Normalize clears them.
	*g = Gender(s)
	return nil
}

// Profile is the user data collected during onboarding.
type Profile struct {
	Name         string  `json:"name,omitempty" bson:"name,omitempty"`
	Weight       float64 `json:"weight" bson:"weight"`
	Gender       Gender  `json:"gender" bson:"gender"`
	HasOnboarded bool    `json:"hasOnboarded" bson:"has_onboarded"`
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Name         *string
	Weight       *float64
	Gender       *Gender
	HasOnboarded *bool
}

// Empty reports whether the patch would not change anything.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Weight == nil && p.Gender == nil && p.HasOnboarded == nil
}

// Apply merges the patch into profile and returns the result.
func (p ProfilePatch) Apply(profile Profile) Profile {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Weight != nil {
		profile.Weight = *p.Weight
	}
	if p.Gender != nil {
		profile.Gender = *p.Gender
	}
	if p.HasOnboarded != nil {
		profile.HasOnboarded = *p.HasOnboarded
	}
	return profile
}

// EntryKind distinguishes genuine drinks from corrective entries.
type EntryKind string

const (
	KindIntake     EntryKind = "intake"
	KindAdjustment EntryKind = "adjustment"
)

// LogEntry is a single immutable record in the intake log.
type LogEntry struct {
	ID     string    `json:"id,omitempty" bson:"id,omitempty"`
	Date   time.Time `json:"date" bson:"date"`
	Amount int       `json:"amount" bson:"amount"`
	Kind   EntryKind `json:"kind,omitempty" bson:"kind,omitempty"`
	Note   string    `json:"note,omitempty" bson:"note,omitempty"`
}

// IsIntake reports whether the entry represents a drink. Entries written
// before kinds existed have an empty kind and count as drinks.
func (e LogEntry) IsIntake() bool {
	return e.Kind == "" || e.Kind == KindIntake
}

// Day returns the calendar day of the entry in loc.
func (e LogEntry) Day(loc *time.Location) string {
	return e.Date.In(loc).Format(DayLayout)
}

// State is the hydration aggregate root and also the persisted snapshot layout.
type State struct {
	DailyTarget   int               `json:"dailyTarget" bson:"daily_target"`
	CurrentIntake int               `json:"currentIntake" bson:"current_intake"`
	History       []LogEntry        `json:"history" bson:"history"`
	UserData      Profile           `json:"userData" bson:"user_data"`
	ActiveDay     string            `json:"activeDay,omitempty" bson:"active_day,omitempty"`
	BonusDays     map[string]string `json:"bonusDays,omitempty" bson:"bonus_days,omitempty"`
}

// NewState returns the first-run state.
func NewState() *State {
	return &State{
		DailyTarget: DefaultDailyTarget,
		History:     []LogEntry{},
	}
}

// Normalize fills fields that older snapshots may lack.
func (s *State) Normalize() {
	if s.DailyTarget <= 0 {
		s.DailyTarget = DefaultDailyTarget
	}
	if s.History == nil {
		s.History = []LogEntry{}
	}
	for i := range s.History {
		if s.History[i].Kind == "" {
			s.History[i].Kind = KindIntake
		}
	}
	if !s.UserData.Gender.Valid() {
		s.UserData.Gender = GenderUnset
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.History = make([]LogEntry, len(s.History))
	copy(out.History, s.History)
	if s.BonusDays != nil {
		out.BonusDays = make(map[string]string, len(s.BonusDays))
		for k, v := range s.BonusDays {
			out.BonusDays[k] = v
		}
	}
	return &out
}

// SumForDay returns the signed total of all entries that fall on day.
func (s *State) SumForDay(day string, loc *time.Location) int {
	total := 0
	for _, e := range s.History {
		if e.Day(loc) == day {
			total += e.Amount
		}
	}
	return total
}
