package services

import (
	"context"
	"sync"

	"github.com/fableforge/fable/internal/logger"
)

// DefaultQueueSize is the default buffer size of the dispatch queue
const DefaultQueueSize = 64

// GenerationTask is the unit of work handed from the submission path to a
// background worker. It carries identifiers only; the worker loads the job
// record through its own database session.
type GenerationTask struct {
	JobID     string
	Theme     string
	SessionID string
}

// Dispatcher hands generation tasks to a pool of background workers. Tasks
// are enqueued only after the pending job record is committed, so a worker
// always starts against a visible record.
type Dispatcher struct {
	tasks chan GenerationTask
}

// NewDispatcher creates a dispatcher with the given queue buffer size
func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultQueueSize
	}
	return &Dispatcher{
		tasks: make(chan GenerationTask, buffer),
	}
}

// Enqueue schedules a task for background execution
func (d *Dispatcher) Enqueue(task GenerationTask) {
	d.tasks <- task
}

// Start launches the worker pool
func (d *Dispatcher) Start(ctx context.Context, wg *sync.WaitGroup, workers int, executor *Job) {
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go d.LaunchWorker(ctx, wg, executor)
	}
}

// LaunchWorker runs a single worker until the context is canceled. Each
// dequeued task is executed to its terminal state; worker failures never
// reach the request path.
func (d *Dispatcher) LaunchWorker(ctx context.Context, wg *sync.WaitGroup, executor *Job) {
	defer wg.Done()

	logger.Info("Worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker received shutdown signal, stopping...")
			return
		case task := <-d.tasks:
			logger.Infof("Worker picked up job %s", task.JobID)
			executor.Execute(task)
		}
	}
}
