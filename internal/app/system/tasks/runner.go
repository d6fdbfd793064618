// internal/app/system/tasks/runner.go
//
// Package tasks runs best-effort background work: fire-and-forget tasks
// dispatched after a primary write commits, and periodic maintenance jobs.
// Task failures are logged, never propagated — nothing here may fail a
// content-serving request.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Job is recurring background work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner executes enqueued tasks on a single worker goroutine and periodic
// jobs on their own tickers. Each task runs under its own timeout so one
// slow external call cannot back the queue up indefinitely.
type Runner struct {
	log     *zap.Logger
	queue   chan Task
	timeout time.Duration

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

// NewRunner creates a Runner with a bounded queue. Tasks enqueued while the
// queue is full are dropped (and logged) rather than blocking the caller.
func NewRunner(logger *zap.Logger, queueSize int, taskTimeout time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}
	return &Runner{
		log:     logger,
		queue:   make(chan Task, queueSize),
		timeout: taskTimeout,
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (r *Runner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.stop:
				// Drain what is already queued before exiting.
				for {
					select {
					case t := <-r.queue:
						r.runTask(t)
					default:
						return
					}
				}
			case t := <-r.queue:
				r.runTask(t)
			}
		}
	}()
}

// Enqueue schedules a task. Never blocks; a full queue drops the task with
// a log entry.
func (r *Runner) Enqueue(t Task) {
	select {
	case r.queue <- t:
	default:
		r.log.Warn("background task queue full, dropping task",
			zap.String("task", t.Name))
	}
}

// StartPeriodic runs a job on its interval until the runner stops.
func (r *Runner) StartPeriodic(job Job) {
	if job.Interval <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(job.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.runTask(Task{Name: job.Name, Run: job.Run})
			}
		}
	}()
}

// Stop signals all goroutines and waits for in-flight work to finish.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Runner) runTask(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := t.Run(ctx); err != nil {
		r.log.Warn("background task failed",
			zap.String("task", t.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	r.log.Debug("background task done",
		zap.String("task", t.Name),
		zap.Duration("elapsed", time.Since(start)))
}
