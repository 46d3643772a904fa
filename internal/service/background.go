package service

import (
	"context"
	"sync"

	"github.com/reachradar/reachradar/internal/logger"
)

// TaskRunner executes fire-and-forget work submitted by request handlers,
// such as the initial syncs kicked off when an influencer is added. Tasks
// run detached from the originating request: triggering, once started,
// runs to completion or timeout regardless of the caller's lifecycle.
// Task errors are logged, never surfaced to the HTTP response.
type TaskRunner struct {
	tasks  chan task
	wg     sync.WaitGroup
	logger *logger.Logger
}

type task struct {
	name string
	fn   func(context.Context) error
}

// NewTaskRunner creates a runner with the given worker count and queue
// depth and starts its workers.
// Parameters:
//   - workers: number of concurrent workers.
//   - queueSize: buffered task backlog before Submit starts rejecting.
//   - log: logger for task errors.
// Returns:
//   - *TaskRunner: running task runner.
func NewTaskRunner(workers, queueSize int, log *logger.Logger) *TaskRunner {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 32
	}

	r := &TaskRunner{
		tasks:  make(chan task, queueSize),
		logger: log,
	}

	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}

	return r
}

func (r *TaskRunner) worker() {
	defer r.wg.Done()
	for t := range r.tasks {
		// Detached from any request context on purpose.
		if err := t.fn(context.Background()); err != nil {
			r.logger.WithError(err).WithField("task", t.name).Error("Background task failed")
		}
	}
}

// Submit enqueues a task for background execution.
// Parameters:
//   - name: task name used in error logs.
//   - fn: task body.
// Returns:
//   - bool: false when the backlog is full and the task was dropped.
func (r *TaskRunner) Submit(name string, fn func(context.Context) error) bool {
	select {
	case r.tasks <- task{name: name, fn: fn}:
		return true
	default:
		r.logger.WithField("task", name).Warn("Background task queue full, dropping task")
		return false
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
// Parameters: none.
// Returns: none.
func (r *TaskRunner) Shutdown() {
	close(r.tasks)
	r.wg.Wait()
}
