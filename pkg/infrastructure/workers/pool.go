package workers

import (
	"context"
	"fmt"
	"sync"
)

// Task is a unit of work run by the pool
type Task func(ctx context.Context) error

// Pool runs tasks on a fixed number of goroutines and collects their errors
type Pool struct {
	workerCount int
	tasks       chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	errors []error
}

// NewPool creates a pool. Call Start before submitting.
func NewPool(ctx context.Context, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workerCount: workerCount,
		tasks:       make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := task(p.ctx); err != nil {
				p.mu.Lock()
				p.errors = append(p.errors, err)
				p.mu.Unlock()
				// first failure stops the remaining tasks
				p.cancel()
			}
		}
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues a task
func (p *Pool) Submit(task Task) error {
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is stopped")
	case p.tasks <- task:
		return nil
	}
}

// Wait closes the queue, waits for running tasks and returns the first error
func (p *Pool) Wait() error {
	close(p.tasks)
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// Stop cancels outstanding work immediately
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}
