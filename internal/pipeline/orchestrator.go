package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rkhatri/dailybrief/internal/wiki"
)

// queueSize bounds pending runs. Digest runs are rare (one per day plus
// manual triggers), so a small queue is plenty.
const queueSize = 8

// Orchestrator owns the run store and a single worker goroutine. One worker
// keeps runs strictly sequential, matching the synchronous delivery model.
type Orchestrator struct {
	store  *RunStore
	queue  chan *Run
	runner *Runner
	log    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(runner *Runner, ttl time.Duration, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:  NewRunStore(ttl),
		queue:  make(chan *Run, queueSize),
		runner: runner,
		log:    log,
	}
}

// Start launches the worker and the store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case run, ok := <-o.queue:
				if !ok {
					return
				}
				o.runner.Process(workerCtx, run)
			}
		}
	}()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.store.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts the orchestrator down.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit creates and queues a run for the given day.
func (o *Orchestrator) Submit(day time.Time) (*Run, error) {
	run := NewRun(day, wiki.DateLabel(day))
	o.store.Put(run)
	select {
	case o.queue <- run:
		return run, nil
	default:
		run.Fail("queue_full", fmt.Sprintf("run queue is full (%d)", queueSize))
		return nil, fmt.Errorf("run queue is full (%d)", queueSize)
	}
}

// GetRun returns a run by ID, nil if unknown or expired.
func (o *Orchestrator) GetRun(id string) *Run {
	return o.store.Get(id)
}
