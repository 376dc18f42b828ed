package sync

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/drivelinehq/driveline/internal/queue"
)

const (
	// DefaultHandlerTimeout bounds a single handler invocation so a wedged
	// remote call cannot block an owner's queue forever.
	DefaultHandlerTimeout = 30 * time.Second
)

// Config for the sync engine.
type Config struct {
	// Workers is the number of goroutines draining the queue.
	// Defaults to NumCPU.
	Workers int `mapstructure:"workers"`

	// HandlerTimeout bounds one handler invocation.
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`

	// SuppressionWindow for the conflict filter.
	SuppressionWindow time.Duration `mapstructure:"suppression_window"`
}

// Engine owns the event queue, the per-owner guards and the worker pool.
// Admission is synchronous and non-blocking; processing is asynchronous,
// strictly serialized per owner and concurrent across owners.
//
// Events live in their owner's guard; the queue carries owner ids whose run
// needs a worker. A worker drains one owner's run to completion, so an
// owner's events execute in admission order with no overlap even when the
// pool has idle workers.
type Engine struct {
	queue    *queue.Queue[string]
	guards   *GuardRegistry
	filter   *ConflictFilter
	state    UserStateStore
	storage  RemoteStorage
	notifier Notifier

	workers        int
	handlerTimeout time.Duration

	wg sync.WaitGroup
}

// NewEngine wires the engine. Notifier may be nil (no notifications).
func NewEngine(cfg *Config, state UserStateStore, storage RemoteStorage, notifier Notifier) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	handlerTimeout := cfg.HandlerTimeout
	if handlerTimeout <= 0 {
		handlerTimeout = DefaultHandlerTimeout
	}

	return &Engine{
		queue:          queue.New[string](),
		guards:         NewGuardRegistry(),
		filter:         NewConflictFilter(state, cfg.SuppressionWindow),
		state:          state,
		storage:        storage,
		notifier:       notifier,
		workers:        workers,
		handlerTimeout: handlerTimeout,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	slog.Info("sync engine start", "workers", e.workers)

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.workerLoop(ctx)
		}()
	}
	return nil
}

// Stop waits for all workers to drain. Call after cancelling the Start ctx.
func (e *Engine) Stop() error {
	e.wg.Wait()
	slog.Info("sync engine stop")
	return nil
}

// Admit runs the conflict filter and, on pass, enqueues the event.
// Returns the suppression reason; SuppressNone means the event was queued.
func (e *Engine) Admit(ev *Event) SuppressReason {
	if reason := e.filter.Check(ev); reason != SuppressNone {
		slog.Info("event suppressed", "reason", reason, "owner", ev.OwnerID, "file", ev.FileID, "kind", ev.Kind)
		return reason
	}
	e.Enqueue(ev)
	return SuppressNone
}

// Enqueue places an event on its owner's run without filtering. Used by
// forced resync, where the user explicitly asked for the work.
func (e *Engine) Enqueue(ev *Event) {
	if e.guards.Add(ev) {
		e.queue.Enqueue(ev.OwnerID)
	}
	slog.Debug("event queued", "event", ev, "kind", ev.Kind, "name", ev.FileName, "depth", e.guards.Pending())
}

// Pending returns the number of events awaiting processing.
func (e *Engine) Pending() int {
	return e.guards.Pending()
}

func (e *Engine) workerLoop(ctx context.Context) {
	for {
		ownerID, ok := e.queue.DequeueWait(ctx)
		if !ok {
			return
		}

		// drain this owner's run in admission order
		for {
			ev := e.guards.Next(ownerID)
			if ev == nil {
				break
			}

			if err := e.processEvent(ctx, ev); err != nil {
				// event is abandoned; reconciled later by a full resync
				slog.Error("event failed", "owner", ev.OwnerID, "file", ev.FileID, "kind", ev.Kind, "error", err)
				e.notify(ctx, ev, err)
				continue
			}

			e.state.SetLastSync(ev.OwnerID, time.Now())
			e.notify(ctx, ev, nil)
		}
	}
}

// processEvent dispatches a single event under the owner's guard, bounded by
// the handler timeout. Panics are contained: the worker loop must survive
// any single event.
func (e *Engine) processEvent(ctx context.Context, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	hctx, cancel := context.WithTimeout(ctx, e.handlerTimeout)
	defer cancel()

	slog.Info("processing event", "event", ev, "kind", ev.Kind, "name", ev.FileName)
	return e.dispatch(hctx, ev)
}

func (e *Engine) notify(ctx context.Context, ev *Event, procErr error) {
	if e.notifier == nil {
		return
	}

	n := &Notification{
		OwnerID:     ev.OwnerID,
		Kind:        ev.Kind,
		FileName:    ev.FileName,
		CompletedAt: time.Now(),
	}
	if procErr != nil {
		n.Failed = true
		n.Error = procErr.Error()
	}

	if err := e.notifier.Notify(ctx, n); err != nil {
		slog.Warn("notification delivery failed", "owner", ev.OwnerID, "file", ev.FileName, "error", err)
	}
}
