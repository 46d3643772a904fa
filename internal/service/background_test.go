package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reachradar/reachradar/internal/logger"
)

func TestTaskRunner_RunsSubmittedTasks(t *testing.T) {
	runner := NewTaskRunner(2, 8, logger.New(nil))

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := runner.Submit("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		if !ok {
			t.Fatal("expected submit to succeed")
		}
	}

	runner.Shutdown()

	if got := ran.Load(); got != 5 {
		t.Errorf("expected 5 tasks to run, got %d", got)
	}
}

func TestTaskRunner_DropsWhenBacklogFull(t *testing.T) {
	runner := NewTaskRunner(1, 1, logger.New(nil))

	block := make(chan struct{})
	runner.Submit("blocker", func(ctx context.Context) error {
		<-block
		return nil
	})

	// Give the single worker time to pick up the blocker, then fill the
	// one-slot backlog.
	time.Sleep(50 * time.Millisecond)
	runner.Submit("queued", func(ctx context.Context) error { return nil })

	if runner.Submit("overflow", func(ctx context.Context) error { return nil }) {
		t.Error("expected overflow task to be dropped")
	}

	close(block)
	runner.Shutdown()
}
