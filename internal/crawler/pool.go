package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/5l1v3r1/linkcheck/pkg/types"
)

// pool multiplexes N fetch workers over a dispatch channel and serializes
// their results back onto a single results channel. Closing dispatch drains
// the workers; the results channel closes once the last in-flight task
// completes.
type pool struct {
	dispatch chan Task
	results  chan taskResult
	wg       sync.WaitGroup
	logger   *slog.Logger

	closeOnce sync.Once
}

func newPool(ctx context.Context, n int, w *worker, logger *slog.Logger) (*pool, error) {
	if n <= 0 {
		return nil, errors.New("pool requires positive concurrency")
	}
	p := &pool{
		dispatch: make(chan Task, n),
		results:  make(chan taskResult, n),
		logger:   logger,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.dispatch {
				p.results <- p.runSafe(ctx, w, task)
			}
		}()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
	return p, nil
}

// runSafe converts a worker panic into a transport failure for the task's
// URL so a single bad page cannot take the crawl down.
func (p *pool) runSafe(ctx context.Context, w *worker, task Task) (out taskResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker panic", "url", task.URL, "panic", r)
			out = taskResult{result: &types.DestinationResult{
				URL:           task.URL,
				DidNotConnect: true,
			}}
		}
	}()
	return w.run(ctx, task)
}

// close stops accepting work. In-flight tasks run to completion and their
// results remain readable until the results channel closes.
func (p *pool) close() {
	p.closeOnce.Do(func() {
		close(p.dispatch)
	})
}
