// internal/app/system/tasks/runner_test.go
package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/acadhub/internal/app/system/tasks"
)

func TestRunner_ExecutesEnqueuedTasks(t *testing.T) {
	r := tasks.NewRunner(nil, 16, time.Second)
	r.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		r.Enqueue(tasks.Task{
			Name: "count",
			Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			},
		})
	}

	r.Stop()
	if got := ran.Load(); got != 5 {
		t.Errorf("expected 5 tasks run, got %d", got)
	}
}

func TestRunner_FailedTaskDoesNotStopWorker(t *testing.T) {
	r := tasks.NewRunner(nil, 16, time.Second)
	r.Start()

	var ran atomic.Int32
	r.Enqueue(tasks.Task{
		Name: "failing",
		Run:  func(ctx context.Context) error { return errors.New("boom") },
	})
	r.Enqueue(tasks.Task{
		Name: "after",
		Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		},
	})

	r.Stop()
	if ran.Load() != 1 {
		t.Error("expected the task after a failure to still run")
	}
}

func TestRunner_DropsWhenQueueFull(t *testing.T) {
	// Runner not started: nothing drains the queue, so the capacity bounds
	// how many tasks are accepted. Enqueue must not block past that.
	r := tasks.NewRunner(nil, 2, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Enqueue(tasks.Task{
				Name: "noop",
				Run:  func(ctx context.Context) error { return nil },
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestRunner_StartPeriodic(t *testing.T) {
	r := tasks.NewRunner(nil, 16, time.Second)
	r.Start()

	var ran atomic.Int32
	r.StartPeriodic(tasks.Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		},
	})

	time.Sleep(100 * time.Millisecond)
	r.Stop()

	if ran.Load() == 0 {
		t.Error("expected periodic job to run at least once")
	}
}
