// Package worker provides an in-process task queue used to decouple
// long-running operations from the request/reply cycle.
package worker

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Task is a unit of background work. It owns its own error handling and
// outbound calls; the enqueuer never observes its result.
type Task func(ctx context.Context)

// A Queue enqueues tasks for background processing.
type Queue interface {
	// Enqueue schedules the task for execution.
	// It returns an error when the queue is stopped or saturated.
	Enqueue(t Task) error
}

// A Pool runs tasks on a fixed set of workers fed by a buffered channel.
type Pool struct {
	log     logrus.FieldLogger
	workers int
	tasks   chan Task
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool returns a Pool with the given number of workers and queue capacity.
// Start must be called before Enqueue.
func NewPool(workers, capacity int, log logrus.FieldLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{
		log:     log,
		workers: workers,
		tasks:   make(chan Task, capacity),
	}
}

// Start spawns the workers.
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for task := range p.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.log.Errorf("worker: task panicked: %v", r)
				}
			}()
			task(context.Background())
		}()
	}
}

// Enqueue schedules the task for execution without blocking.
func (p *Pool) Enqueue(t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.New("worker: pool is shut down")
	}

	select {
	case p.tasks <- t:
		return nil
	default:
		return errors.New("worker: queue is full")
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish
// or for the context to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "worker: shutdown aborted")
	}
}
