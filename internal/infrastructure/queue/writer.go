package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hydrowise/hydration-service/internal/api/metrics"
	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

const (
	defaultRetryInterval = 5 * time.Second
	defaultWriteTimeout  = 10 * time.Second
)

// WriterOptions tunes a SnapshotWriter.
type WriterOptions struct {
	RetryInterval time.Duration
	WriteTimeout  time.Duration
}

// SnapshotWriter persists state snapshots from a single goroutine. Submitted
// snapshots coalesce: only the most recent pending one is written, so writes
// land in submission order and a burst of mutations costs one write.
type SnapshotWriter struct {
	repo ports.StateRepository
	opts WriterOptions
	log  zerolog.Logger

	kick chan struct{}

	mu      sync.Mutex
	pending *domain.State
	version uint64 // last submitted
	written uint64 // last persisted
	lastErr error
	waiters []flushWaiter
}

type flushWaiter struct {
	version uint64
	done    chan struct{}
}

var _ ports.SnapshotWriter = (*SnapshotWriter)(nil)

// NewSnapshotWriter creates a writer for repo. Call Start before submitting.
func NewSnapshotWriter(repo ports.StateRepository, opts WriterOptions, log zerolog.Logger) *SnapshotWriter {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &SnapshotWriter{
		repo: repo,
		opts: opts,
		log:  log,
		kick: make(chan struct{}, 1),
	}
}

// Start launches the writer goroutine. It stops when ctx is cancelled, after
// one last attempt to persist whatever is still pending.
func (w *SnapshotWriter) Start(ctx context.Context) {
	go w.run(ctx)
}

// Submit replaces the pending snapshot. It never blocks.
func (w *SnapshotWriter) Submit(state *domain.State) {
	w.mu.Lock()
	w.pending = state
	w.version++
	w.mu.Unlock()
	w.signal()
}

// Flush blocks until every snapshot submitted before the call is persisted,
// or ctx is done.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.written >= w.version {
		w.mu.Unlock()
		return nil
	}
	fw := flushWaiter{version: w.version, done: make(chan struct{})}
	w.waiters = append(w.waiters, fw)
	w.mu.Unlock()

	w.signal()
	select {
	case <-fw.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of the last failed write, or nil once a write
// succeeds again.
func (w *SnapshotWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *SnapshotWriter) signal() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *SnapshotWriter) run(ctx context.Context) {
	retry := time.NewTimer(w.opts.RetryInterval)
	retry.Stop()
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case <-w.kick:
		case <-retry.C:
		}

		if !w.writePending(ctx) {
			retry.Reset(w.opts.RetryInterval)
		}
	}
}

// drain makes a final write attempt on shutdown without the cancelled context.
func (w *SnapshotWriter) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), w.opts.WriteTimeout)
	defer cancel()
	if !w.writePending(ctx) {
		w.log.Error().Err(w.Err()).Msg("snapshot lost on shutdown")
	}
}

// writePending persists the pending snapshot, if any. It returns false when
// the write failed and should be retried.
func (w *SnapshotWriter) writePending(ctx context.Context) bool {
	w.mu.Lock()
	state, version := w.pending, w.version
	w.pending = nil
	w.mu.Unlock()

	if state == nil {
		return true
	}

	writeCtx, cancel := context.WithTimeout(ctx, w.opts.WriteTimeout)
	start := time.Now()
	err := w.repo.Save(writeCtx, state)
	cancel()
	metrics.PersistWriteDuration.Observe(time.Since(start).Seconds())

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		// A newer submission supersedes the failed one.
		if w.pending == nil {
			w.pending = state
		}
		w.lastErr = fmt.Errorf("%w: %w", domain.ErrPersistenceSave, err)
		metrics.PersistWritesTotal.WithLabelValues("error").Inc()
		metrics.PersistHealthy.Set(0)
		w.log.Error().Err(err).Uint64("version", version).Msg("snapshot write failed")
		return false
	}

	w.written = version
	w.lastErr = nil
	metrics.PersistWritesTotal.WithLabelValues("ok").Inc()
	metrics.PersistHealthy.Set(1)

	remaining := w.waiters[:0]
	for _, fw := range w.waiters {
		if fw.version <= version {
			close(fw.done)
			continue
		}
		remaining = append(remaining, fw)
	}
	w.waiters = remaining
	return true
}
