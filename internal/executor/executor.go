package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/s3drop/internal/metrics"
)

// Task is a unit of asynchronous work. Errors are logged and counted, never
// returned to the submitter.
type Task func(ctx context.Context) error

// Options sizes the pool. Max is raised to at least 1 and to Core when it is
// smaller, so a zero value still yields a working single-worker pool.
type Options struct {
	// Core is the number of permanent workers, started eagerly.
	Core int
	// Max caps the total number of workers, core plus on-demand extras.
	Max int
	// QueueCapacity is the buffered backlog between submitters and workers.
	// Zero means direct handoff: a task is accepted only when a worker is
	// ready to take it immediately.
	QueueCapacity int
	// KeepAlive is how long an extra worker waits for more work before
	// retiring. Zero retires it as soon as the queue is empty.
	KeepAlive time.Duration
	// NamePrefix labels workers in logs, e.g. "s3-writer-" yields
	// s3-writer-0, s3-writer-1 and so on.
	NamePrefix string
}

// Executor is a bounded task pool with a caller-runs saturation policy: when
// the queue is full and the pool is already at Max workers, Submit runs the
// task on the submitting goroutine instead of dropping it. Backpressure
// therefore slows producers down but never loses accepted work.
type Executor struct {
	opts Options
	base context.Context

	mu      sync.Mutex
	tasks   chan Task
	workers int
	seq     int
	closed  bool
	stats   Stats

	wg sync.WaitGroup
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Pooled    int64 `json:"pooled"`
	Inline    int64 `json:"inline"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
	Spawned   int64 `json:"spawned"`
	Workers   int   `json:"workers"`
}

// New builds the pool and starts the core workers. base is the context pooled
// tasks run under; it should live as long as the process, since tasks execute
// after the submitting call has already returned.
func New(base context.Context, opts Options) *Executor {
	if base == nil {
		base = context.Background()
	}
	if opts.Core < 0 {
		opts.Core = 0
	}
	if opts.Max < 1 {
		opts.Max = 1
	}
	if opts.Max < opts.Core {
		opts.Max = opts.Core
	}
	if opts.QueueCapacity < 0 {
		opts.QueueCapacity = 0
	}
	if opts.KeepAlive < 0 {
		opts.KeepAlive = 0
	}
	if opts.NamePrefix == "" {
		opts.NamePrefix = "worker-"
	}

	e := &Executor{
		opts:  opts,
		base:  base,
		tasks: make(chan Task, opts.QueueCapacity),
	}

	e.mu.Lock()
	for i := 0; i < opts.Core; i++ {
		e.startWorkerLocked(nil, true)
	}
	e.mu.Unlock()
	return e
}

// Submit schedules t without blocking the caller, trying in order: hand the
// task to the queue, grow the pool up to Max with the task as the new
// worker's first job, and finally run the task synchronously on the calling
// goroutine. After Close the task is dropped with a warning.
func (e *Executor) Submit(ctx context.Context, t Task) {
	if t == nil {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.stats.Dropped++
		e.mu.Unlock()
		metrics.WriterTask(metrics.OutcomeDropped)
		logutil.GetLogger(ctx).Warn("task pool closed, dropping task")
		return
	}
	e.stats.Submitted++

	select {
	case e.tasks <- t:
		e.stats.Pooled++
		if e.workers == 0 {
			// Nobody alive to drain the queue, bring up a worker.
			e.startWorkerLocked(nil, false)
		}
		e.mu.Unlock()
		metrics.WriterTask(metrics.OutcomePooled)
		return
	default:
	}

	if e.workers < e.opts.Max {
		e.startWorkerLocked(t, false)
		e.stats.Pooled++
		e.mu.Unlock()
		metrics.WriterTask(metrics.OutcomePooled)
		return
	}

	e.stats.Inline++
	e.mu.Unlock()
	metrics.WriterTask(metrics.OutcomeInline)
	e.runTask(ctx, logutil.GetLogger(ctx), t)
}

// Stats returns a snapshot of pool counters.
func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Workers = e.workers
	return s
}

// Close stops intake, lets already queued tasks drain and waits for every
// worker to exit. Safe to call more than once.
func (e *Executor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.tasks)
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

// startWorkerLocked launches one worker. first, when non-nil, is executed
// before the worker starts draining the queue. Callers must hold e.mu.
func (e *Executor) startWorkerLocked(first Task, core bool) {
	e.workers++
	e.stats.Spawned++
	name := fmt.Sprintf("%s%d", e.opts.NamePrefix, e.seq)
	e.seq++

	e.wg.Add(1)
	go e.runWorker(name, first, core)
}

func (e *Executor) runWorker(name string, first Task, core bool) {
	defer e.wg.Done()

	metrics.WorkerUp()
	defer metrics.WorkerDown()
	defer func() {
		e.mu.Lock()
		e.workers--
		// Do not strand queued tasks when the last worker retires.
		if !e.closed && e.workers == 0 && len(e.tasks) > 0 {
			e.startWorkerLocked(nil, false)
		}
		e.mu.Unlock()
	}()

	logger := logutil.GetLogger(e.base).With(zap.String("worker", name))

	if first != nil {
		e.runTask(e.base, logger, first)
	}
	if core {
		for t := range e.tasks {
			e.runTask(e.base, logger, t)
		}
		return
	}

	for {
		var (
			t  Task
			ok bool
		)
		if e.opts.KeepAlive <= 0 {
			select {
			case t, ok = <-e.tasks:
			default:
				return
			}
		} else {
			timer := time.NewTimer(e.opts.KeepAlive)
			select {
			case t, ok = <-e.tasks:
				timer.Stop()
			case <-timer.C:
				// Recheck the queue so a task enqueued right at the
				// deadline is not left behind.
				select {
				case t, ok = <-e.tasks:
				default:
					return
				}
			}
		}
		if !ok {
			return
		}
		e.runTask(e.base, logger, t)
	}
}

func (e *Executor) runTask(ctx context.Context, logger *zap.Logger, t Task) {
	if err := t(ctx); err != nil {
		e.mu.Lock()
		e.stats.Failed++
		e.mu.Unlock()
		metrics.WriterTask(metrics.OutcomeFailed)
		logger.Error("async task failed", zap.Error(err))
	}
}
