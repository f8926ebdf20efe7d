package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingWorker struct {
	runs    atomic.Int32
	failure error
	panics  bool
}

func (w *countingWorker) Run(ctx context.Context) error {
	w.runs.Add(1)
	if w.panics {
		panic("boom")
	}
	return w.failure
}

func TestSupervisor_Restarts_Failing_Worker(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := &countingWorker{failure: fmt.Errorf("flaky")}
	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(ctx)
	}()

	// Given enough restart intervals, the worker must have run several times
	req.Eventually(func() bool {
		return worker.runs.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Timeout: supervisor never stopped")
	}
}

func TestSupervisor_Recovers_From_Panic(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := &countingWorker{panics: true}
	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(ctx)
	}()

	// A panicking worker is recovered and restarted, never crashing the test
	req.Eventually(func() bool {
		return worker.runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	sup.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Timeout: supervisor never stopped")
	}
}

func TestSupervisor_Lets_Finished_Worker_Rest(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	worker := &countingWorker{}
	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(context.Background())
	}()

	// A clean return means the worker is finished, not failed: no restart
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Timeout: supervisor never returned")
	}
	req.Equal(int32(1), worker.runs.Load())
}
