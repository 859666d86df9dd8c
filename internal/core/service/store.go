package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// StoreOptions tunes a HydrationStore. Zero values fall back to sane defaults.
type StoreOptions struct {
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
	// Audit, when set, receives every log entry. Failures are non-fatal.
	Audit ports.IntakeAuditRepository
}

// HydrationStore is the single source of truth for the hydration state.
// Every mutation updates the in-memory aggregate atomically and hands a
// snapshot to the writer; persistence never blocks or fails a mutation.
type HydrationStore struct {
	repo   ports.StateRepository
	writer ports.SnapshotWriter
	audit  ports.IntakeAuditRepository
	log    zerolog.Logger
	loc    *time.Location
	now    func() time.Time
	newID  func() string

	loadMu   sync.Mutex
	hydrated atomic.Bool
	ready    chan struct{}

	mu    sync.Mutex
	state *domain.State
}

// NewHydrationStore returns a store holding default values. Call Load before use.
func NewHydrationStore(repo ports.StateRepository, writer ports.SnapshotWriter, log zerolog.Logger, opts StoreOptions) *HydrationStore {
	s := &HydrationStore{
		repo:   repo,
		writer: writer,
		audit:  opts.Audit,
		log:    log,
		loc:    opts.Location,
		now:    opts.Now,
		newID:  opts.NewID,
		ready:  make(chan struct{}),
		state:  domain.NewState(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Load restores the persisted snapshot, or starts fresh when none exists.
// The hydration flag flips to true exactly once; a failed load leaves it
// false and may be retried.
func (s *HydrationStore) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.hydrated.Load() {
		return nil
	}

	state, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrStateNotFound):
		s.log.Info().Msg("no persisted hydration state, starting fresh")
		state = domain.NewState()
	case err != nil:
		return fmt.Errorf("%w: %w", domain.ErrPersistenceLoad, err)
	}
	if g := state.UserData.Gender; !g.Valid() {
		s.log.Warn().Str("gender", string(g)).Msg("unknown gender in persisted profile, resetting to unset")
	}
	state.Normalize()

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.hydrated.Store(true)
	close(s.ready)

	s.log.Info().
		Int("daily_target", state.DailyTarget).
		Int("current_intake", state.CurrentIntake).
		Int("entries", len(state.History)).
		Msg("hydration state loaded")
	return nil
}

// Hydrated reports whether the persisted state has finished loading.
func (s *HydrationStore) Hydrated() bool { return s.hydrated.Load() }

// Ready is closed once the store has been hydrated.
func (s *HydrationStore) Ready() <-chan struct{} { return s.ready }

// Today returns the current calendar day key.
func (s *HydrationStore) Today() string {
	return s.now().In(s.loc).Format(domain.DayLayout)
}

// Snapshot returns a deep copy of the current state.
func (s *HydrationStore) Snapshot() (*domain.State, error) {
	if !s.hydrated.Load() {
		return nil, domain.ErrNotReady
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), nil
}

// PersistenceErr returns the last persistence failure, nil when healthy.
func (s *HydrationStore) PersistenceErr() error { return s.writer.Err() }

// Flush blocks until the latest snapshot has been written.
func (s *HydrationStore) Flush(ctx context.Context) error { return s.writer.Flush(ctx) }

// AddWater records a drink. Negative amounts are accepted unchanged.
func (s *HydrationStore) AddWater(ctx context.Context, amount int) (*domain.State, error) {
	return s.appendEntry(ctx, amount, domain.KindIntake, "")
}

// Adjust records a typed correction that is not a drink.
func (s *HydrationStore) Adjust(ctx context.Context, amount int, note string) (*domain.State, error) {
	return s.appendEntry(ctx, amount, domain.KindAdjustment, note)
}

// ResetIntake brings the current intake back to zero with an adjustment entry.
func (s *HydrationStore) ResetIntake(ctx context.Context) (*domain.State, error) {
	var recorded *domain.LogEntry
	snap, err := s.mutate(func(st *domain.State) bool {
		if st.CurrentIntake == 0 {
			return false
		}
		entry := s.newEntry(-st.CurrentIntake, domain.KindAdjustment, "reset")
		s.record(st, entry)
		recorded = &entry
		return true
	})
	if err != nil {
		return nil, err
	}
	if recorded != nil {
		s.auditEntry(ctx, *recorded)
	}
	return snap, nil
}

func (s *HydrationStore) appendEntry(ctx context.Context, amount int, kind domain.EntryKind, note string) (*domain.State, error) {
	entry := s.newEntry(amount, kind, note)
	snap, err := s.mutate(func(st *domain.State) bool {
		s.record(st, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	s.auditEntry(ctx, entry)

	s.log.Debug().
		Str("kind", string(kind)).
		Int("amount", amount).
		Int("current_intake", snap.CurrentIntake).
		Msg("log entry recorded")
	return snap, nil
}

func (s *HydrationStore) newEntry(amount int, kind domain.EntryKind, note string) domain.LogEntry {
	return domain.LogEntry{
		ID:     s.newID(),
		Date:   s.now().UTC(),
		Amount: amount,
		Kind:   kind,
		Note:   note,
	}
}

// record prepends entry so the log stays newest first.
func (s *HydrationStore) record(st *domain.State, entry domain.LogEntry) {
	st.CurrentIntake += entry.Amount
	st.History = append([]domain.LogEntry{entry}, st.History...)
	if st.ActiveDay == "" {
		st.ActiveDay = s.Today()
	}
}

func (s *HydrationStore) auditEntry(ctx context.Context, entry domain.LogEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.InsertEntry(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("failed to insert intake audit entry")
	}
}

// SetTarget replaces the daily target. Callers must pass a positive value.
func (s *HydrationStore) SetTarget(target int) (*domain.State, error) {
	return s.mutate(func(st *domain.State) bool {
		st.DailyTarget = target
		return true
	})
}

// SetUserData merges patch into the profile. An empty patch changes nothing.
func (s *HydrationStore) SetUserData(patch domain.ProfilePatch) (*domain.State, error) {
	if patch.Empty() {
		return s.Snapshot()
	}
	return s.mutate(func(st *domain.State) bool {
		st.UserData = patch.Apply(st.UserData)
		return true
	})
}

// ResetDaily zeroes the intake and clears the log.
func (s *HydrationStore) ResetDaily() (*domain.State, error) {
	return s.mutate(func(st *domain.State) bool {
		st.CurrentIntake = 0
		st.History = []domain.LogEntry{}
		st.ActiveDay = s.Today()
		return true
	})
}

// RollDay rescopes the current intake to today when the active day has
// passed. The log is kept for the weekly history.
func (s *HydrationStore) RollDay() (*domain.State, error) {
	today := s.Today()
	return s.mutate(func(st *domain.State) bool {
		if st.ActiveDay == today {
			return false
		}
		previous := st.ActiveDay
		st.CurrentIntake = st.SumForDay(today, s.loc)
		st.ActiveDay = today
		s.log.Info().Str("from", previous).Str("to", today).Msg("day rolled over")
		return true
	})
}

// AddActivityBonus raises the target by one bonus. No ceiling applies.
func (s *HydrationStore) AddActivityBonus() (*domain.State, error) {
	return s.mutate(func(st *domain.State) bool {
		st.DailyTarget = domain.ActivityBump(st.DailyTarget)
		return true
	})
}

// ApplyHeat applies the heat rule for one weather reading.
func (s *HydrationStore) ApplyHeat(temperatureC int) (*domain.State, bool, error) {
	var bumped bool
	snap, err := s.mutate(func(st *domain.State) bool {
		st.DailyTarget, bumped = domain.HeatBump(st.DailyTarget, temperatureC)
		return bumped
	})
	return snap, bumped, err
}

// Claim implements ports.BonusLedger on top of the persisted state.
func (s *HydrationStore) Claim(_ context.Context, source, day string) (bool, error) {
	var claimed bool
	_, err := s.mutate(func(st *domain.State) bool {
		if st.BonusDays[source] == day {
			return false
		}
		if st.BonusDays == nil {
			st.BonusDays = make(map[string]string)
		}
		st.BonusDays[source] = day
		claimed = true
		return true
	})
	return claimed, err
}

// Release drops the claim for source when it is still recorded for day.
func (s *HydrationStore) Release(_ context.Context, source, day string) error {
	_, err := s.mutate(func(st *domain.State) bool {
		if st.BonusDays[source] != day {
			return false
		}
		delete(st.BonusDays, source)
		return true
	})
	return err
}

// mutate runs fn under the state lock. When fn reports a change the new
// snapshot is submitted while still holding the lock so writes are ordered.
func (s *HydrationStore) mutate(fn func(st *domain.State) bool) (*domain.State, error) {
	if !s.hydrated.Load() {
		return nil, domain.ErrNotReady
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fn(s.state) {
		s.writer.Submit(s.state.Clone())
	}
	return s.state.Clone(), nil
}
