package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPoolStopped is returned when submitting to a stopped pool
var ErrPoolStopped = errors.New("worker pool stopped")

// Task is one unit of work bound to a shard key
type Task func(ctx context.Context)

// Pool runs tasks on a fixed set of workers. Tasks with the same key always
// run on the same worker, one at a time and in submission order.
type Pool struct {
	shards []chan Task
	logger *slog.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewPool creates a pool of workers, each with a queue of queueSize tasks
func NewPool(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	shards := make([]chan Task, workers)
	for i := range shards {
		shards[i] = make(chan Task, queueSize)
	}
	return &Pool{
		shards: shards,
		logger: logger.With("component", "workers"),
	}
}

// Start launches the workers. ctx is handed to every task.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for i, shard := range p.shards {
		p.wg.Add(1)
		go p.run(ctx, i, shard)
	}
	p.logger.Info("worker pool started", "workers", len(p.shards))
}

// Submit queues task on the worker owning key. It blocks while that
// worker's queue is full.
func (p *Pool) Submit(ctx context.Context, key int64, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.shards[p.shardFor(key)] <- task:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit task: %w", ctx.Err())
	}
}

// Stop stops accepting tasks and waits for queued ones to finish
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for _, shard := range p.shards {
		close(shard)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return len(p.shards)
}

// shardFor maps any key, negative group chat ids included, onto a worker
func (p *Pool) shardFor(key int64) int {
	return int(uint64(key) % uint64(len(p.shards)))
}

func (p *Pool) run(ctx context.Context, id int, tasks <-chan Task) {
	defer p.wg.Done()

	for task := range tasks {
		p.execute(ctx, id, task)
	}
}

func (p *Pool) execute(ctx context.Context, id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "worker", id, "panic", r)
		}
	}()
	task(ctx)
}
