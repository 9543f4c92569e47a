// Package app contains the timer state machine and the interfaces its
// collaborators implement. Adapters (Redis, DynamoDB, display sinks) live
// in the adapter package; HTTP wiring lives in port.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/okolari/tracktimer/internal/domain"
)

var tracer = otel.Tracer("tracker/app")

var (
	timerStartsTotal      metric.Int64Counter
	timerPausesTotal      metric.Int64Counter
	timerStopsTotal       metric.Int64Counter
	timerRestoresTotal    metric.Int64Counter
	snapshotFailuresTotal metric.Int64Counter
)

func init() {
	m := otel.Meter("tracker/app")

	timerStartsTotal, _ = m.Int64Counter("timer_starts_total",
		metric.WithDescription("Total timer starts (including resumes)"))
	timerPausesTotal, _ = m.Int64Counter("timer_pauses_total",
		metric.WithDescription("Total timer pauses"))
	timerStopsTotal, _ = m.Int64Counter("timer_stops_total",
		metric.WithDescription("Total timer stops"))
	timerRestoresTotal, _ = m.Int64Counter("timer_restores_total",
		metric.WithDescription("Total snapshots restored at construction"))
	snapshotFailuresTotal, _ = m.Int64Counter("timer_snapshot_failures_total",
		metric.WithDescription("Total snapshot store failures (swallowed)"))
}

// SnapshotStore persists the timer's snapshot in a single shared slot with
// last-write-wins semantics. Load returns (nil, nil) when no snapshot
// exists. All failures are treated by the timer as "no snapshot" - the
// store is a best-effort convenience, never a correctness dependency.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// Display receives the formatted elapsed time ("HH:MM:SS") on every tick
// when no custom tick callback is registered.
type Display interface {
	Render(formatted string)
}

// Callbacks is the notification sink for timer transitions. Every slot is
// optional. Callbacks run synchronously with the timer lock held: they must
// not call back into the Timer.
type Callbacks struct {
	// OnStart fires when the timer transitions to running, including
	// resumes.
	OnStart func(taskID domain.TaskID)

	// OnPause fires on pause with the frozen elapsed time.
	OnPause func(taskID domain.TaskID, elapsedMs int64)

	// OnStop fires on stop with the total elapsed time, before the reset
	// that follows.
	OnStop func(taskID domain.TaskID, totalElapsedMs int64)

	// OnTick fires once per tick with the recomputed elapsed time, and
	// with 0 after a stop or reset. When nil, the default handler renders
	// domain.FormatElapsed(elapsedMs) to the Display.
	OnTick func(elapsedMs int64)
}

// Options configures a Timer. Zero-value fields fall back to defaults:
// RealClock, domain.TickInterval, domain.SnapshotMaxAge, slog.Default().
// Store may be nil, in which case nothing persists and restore is skipped.
type Options struct {
	Clock          domain.Clock
	Store          SnapshotStore
	Callbacks      Callbacks
	Display        Display
	Logger         *slog.Logger
	TickInterval   time.Duration
	SnapshotMaxAge time.Duration
}

// Timer owns elapsed-time bookkeeping for a single tracked task and the
// Idle/Running/Paused state machine. Elapsed time is always derived by
// wall-clock subtraction against the adjusted start instant; the periodic
// tick is a display refresh, not the time-keeping mechanism, which makes
// the timer immune to scheduling drift and missed ticks.
//
// All state is guarded by one mutex. Precondition violations (double
// start, pause while idle) are boolean-returning no-ops, never errors.
type Timer struct {
	clock          domain.Clock
	store          SnapshotStore
	cb             Callbacks
	display        Display
	logger         *slog.Logger
	tickInterval   time.Duration
	snapshotMaxAge time.Duration

	// ctx is the construction context, used for store writes driven by
	// ticks rather than by a caller.
	ctx context.Context

	mu        sync.Mutex
	startTime int64 // epoch ms the running interval began; 0 when idle
	elapsed   int64 // accumulated ms, frozen while not running
	running   bool
	taskID    domain.TaskID

	// gen identifies the current tick schedule. Transitions bump it after
	// closing cancel, so a tick from a cancelled schedule is discarded
	// under the lock and can never write post-transition state.
	gen    uint64
	cancel chan struct{}
	ticks  sync.WaitGroup
}

// NewTimer constructs a Timer and performs restore-on-load: if the store
// holds a snapshot that was saved while running less than the restore
// window ago, the timer adopts it, recomputes elapsed time against the
// current wall clock, and resumes ticking. Stale or non-running snapshots
// are ignored and the timer starts idle. Store failures are swallowed.
func NewTimer(ctx context.Context, opts Options) *Timer {
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = domain.TickInterval
	}
	if opts.SnapshotMaxAge <= 0 {
		opts.SnapshotMaxAge = domain.SnapshotMaxAge
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t := &Timer{
		clock:          opts.Clock,
		store:          opts.Store,
		cb:             opts.Callbacks,
		display:        opts.Display,
		logger:         opts.Logger,
		tickInterval:   opts.TickInterval,
		snapshotMaxAge: opts.SnapshotMaxAge,
		ctx:            ctx,
	}
	t.restore(ctx)
	return t
}

// Start transitions Idle or Paused to Running, timing the given task.
// When resuming, the retained elapsed time is preserved by shifting the
// start instant backward. Returns false without side effects if the timer
// is already running or taskID is zero.
func (t *Timer) Start(ctx context.Context, taskID domain.TaskID) bool {
	ctx, span := tracer.Start(ctx, "timer.start")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(ctx, taskID)
}

// Resume re-starts a paused timer against its retained task. It delegates
// to the start transition, which reconstitutes the start instant from the
// frozen elapsed time. Returns false if running or if there is no retained
// task to resume.
func (t *Timer) Resume(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "timer.resume")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(ctx, t.taskID)
}

func (t *Timer) startLocked(ctx context.Context, taskID domain.TaskID) bool {
	if t.running || taskID.IsZero() {
		return false
	}

	now := domain.NowUTCMillis(t.clock)
	t.taskID = taskID
	t.startTime = now - t.elapsed
	t.running = true
	t.scheduleLocked()

	timerStartsTotal.Add(ctx, 1)
	if t.cb.OnStart != nil {
		t.cb.OnStart(taskID)
	}
	t.saveLocked(ctx, now)
	return true
}

// Pause freezes the timer, retaining elapsed time and the task reference
// so a later Resume continues where it left off. The persisted snapshot is
// rewritten with running=false; it will never be restored, it only keeps
// an open display consistent. Returns false if not running.
func (t *Timer) Pause(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "timer.pause")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}

	t.cancelScheduleLocked()
	now := domain.NowUTCMillis(t.clock)
	t.elapsed = now - t.startTime
	t.running = false

	timerPausesTotal.Add(ctx, 1)
	if t.cb.OnPause != nil {
		t.cb.OnPause(t.taskID, t.elapsed)
	}
	t.saveLocked(ctx, now)
	return true
}

// Stop ends the running interval, reports the total elapsed time to the
// stop notification, and performs a full reset: all state cleared, the
// persisted snapshot deleted, and a final tick notification of 0 emitted.
// Returns false if not running.
func (t *Timer) Stop(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "timer.stop")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}

	t.cancelScheduleLocked()
	now := domain.NowUTCMillis(t.clock)
	total := now - t.startTime

	timerStopsTotal.Add(ctx, 1)
	if t.cb.OnStop != nil {
		t.cb.OnStop(t.taskID, total)
	}
	t.resetLocked(ctx)
	return true
}

// Reset forces the timer to Idle from any state: pending ticks are
// cancelled, all fields cleared, the persisted snapshot deleted, and a
// tick notification of 0 emitted.
func (t *Timer) Reset(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "timer.reset")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelScheduleLocked()
	t.resetLocked(ctx)
}

// Close cancels the tick schedule and waits for its goroutine to exit,
// leaving both in-memory state and the persisted snapshot untouched so a
// restart can restore a running interval. Call on shutdown.
func (t *Timer) Close() {
	t.mu.Lock()
	t.cancelScheduleLocked()
	t.mu.Unlock()
	t.ticks.Wait()
}

// Running reports whether the timer is in the Running state.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// TaskID returns the task currently being timed, or the zero TaskID when
// idle.
func (t *Timer) TaskID() domain.TaskID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taskID
}

// Elapsed returns the elapsed time in milliseconds: recomputed against the
// wall clock while running, frozen while paused, zero when idle.
func (t *Timer) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return domain.NowUTCMillis(t.clock) - t.startTime
	}
	return t.elapsed
}

// Status is a point-in-time view of the timer for read-only consumers.
type Status struct {
	Active           bool
	TaskID           domain.TaskID
	ElapsedMs        int64
	StartTimeEpochMs int64
}

// Status returns a consistent snapshot of the timer's observable state.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := t.elapsed
	if t.running {
		elapsed = domain.NowUTCMillis(t.clock) - t.startTime
	}
	return Status{
		Active:           t.running,
		TaskID:           t.taskID,
		ElapsedMs:        elapsed,
		StartTimeEpochMs: t.startTime,
	}
}

// ---------------------------------------------------------------------------
// Tick scheduling
// ---------------------------------------------------------------------------

// scheduleLocked arms a new tick schedule. The generation bump invalidates
// any tick still in flight from a previous schedule.
func (t *Timer) scheduleLocked() {
	t.gen++
	cancel := make(chan struct{})
	t.cancel = cancel

	t.ticks.Add(1)
	go t.runSchedule(t.gen, cancel)
}

// cancelScheduleLocked deterministically cancels the pending schedule.
// Callers must invoke this before mutating state so a late tick cannot
// overwrite the transition.
func (t *Timer) cancelScheduleLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}

func (t *Timer) runSchedule(gen uint64, cancel <-chan struct{}) {
	defer t.ticks.Done()
	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			t.tick(gen)
		}
	}
}

// tick recomputes elapsed time from the wall clock, notifies, and rewrites
// the snapshot. Ticks from cancelled schedules fail the generation check
// under the lock and are discarded.
func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.running {
		return
	}

	now := domain.NowUTCMillis(t.clock)
	t.elapsed = now - t.startTime
	t.notifyTickLocked(t.elapsed)
	t.saveLocked(t.ctx, now)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func (t *Timer) restore(ctx context.Context) {
	if t.store == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.store.Load(ctx)
	if err != nil {
		snapshotFailuresTotal.Add(ctx, 1)
		t.logger.Warn("load timer snapshot, starting idle", slog.String("error", err.Error()))
		return
	}
	if snap == nil {
		return
	}

	now := domain.NowUTCMillis(t.clock)
	if !snap.Restorable(now, t.snapshotMaxAge) {
		t.logger.Debug("ignoring stale timer snapshot",
			slog.Bool("running", snap.Running),
			slog.Duration("age", snap.Age(now)),
		)
		return
	}

	taskID, err := domain.NewTaskID(snap.TaskID)
	if err != nil {
		t.logger.Warn("timer snapshot has invalid task ID, starting idle", slog.String("error", err.Error()))
		return
	}

	t.taskID = taskID
	t.startTime = snap.StartTimeEpochMs
	t.running = true
	// Recompute rather than trust the saved elapsed value: time kept
	// passing while the process was down.
	t.elapsed = now - t.startTime
	if t.elapsed < 0 {
		t.startTime = now
		t.elapsed = 0
	}
	t.scheduleLocked()

	timerRestoresTotal.Add(ctx, 1)
	t.logger.Info("restored running timer from snapshot",
		slog.String("task_id", taskID.String()),
		slog.Int64("elapsed_ms", t.elapsed),
	)
	t.notifyTickLocked(t.elapsed)
	t.saveLocked(ctx, now)
}

func (t *Timer) resetLocked(ctx context.Context) {
	t.taskID = domain.TaskID{}
	t.startTime = 0
	t.elapsed = 0
	t.running = false
	t.clearLocked(ctx)
	t.notifyTickLocked(0)
}

func (t *Timer) notifyTickLocked(elapsedMs int64) {
	if t.cb.OnTick != nil {
		t.cb.OnTick(elapsedMs)
		return
	}
	if t.display != nil {
		t.display.Render(domain.FormatElapsed(elapsedMs))
	}
}

func (t *Timer) saveLocked(ctx context.Context, nowMs int64) {
	if t.store == nil {
		return
	}
	snap := Snapshot{
		StartTimeEpochMs: t.startTime,
		ElapsedMs:        t.elapsed,
		Running:          t.running,
		TaskID:           t.taskID.String(),
		SavedAtMs:        nowMs,
	}
	if err := t.store.Save(ctx, snap); err != nil {
		snapshotFailuresTotal.Add(ctx, 1)
		t.logger.Warn("persist timer snapshot", slog.String("error", err.Error()))
	}
}

func (t *Timer) clearLocked(ctx context.Context) {
	if t.store == nil {
		return
	}
	if err := t.store.Clear(ctx); err != nil {
		snapshotFailuresTotal.Add(ctx, 1)
		t.logger.Warn("clear timer snapshot", slog.String("error", err.Error()))
	}
}
