package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// envelope tags a job with its submission index
type envelope struct {
	idx int
	job Job
}

type indexedResult struct {
	idx    int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are drained as they arrive, so any number of jobs may be submitted
// before Wait, and are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan envelope
	results    chan indexedResult
	collected  []indexedResult
	drained    chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	mu         sync.Mutex
	submitted  int
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a pool whose jobs are cancelled with ctx
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan envelope, workers*2), // Buffered to prevent blocking
		results:    make(chan indexedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.drained = make(chan struct{})
	go p.collect()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// collect owns p.collected until p.results is closed
func (p *Pool) collect() {
	defer close(p.drained)
	for r := range p.results {
		p.collected = append(p.collected, r)
	}
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case env, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := env.job.Execute(p.ctx)
			select {
			case p.results <- indexedResult{idx: env.idx, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	idx := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- envelope{idx: idx, job: job}:
	}
}

// Wait waits for all jobs to complete and returns the results in submission order
func (p *Pool) Wait() []Result {
	// Close job queue to signal workers to exit when done
	close(p.jobQueue)

	p.wg.Wait()
	p.closeResults()
	if p.drained == nil {
		return []Result{}
	}
	<-p.drained

	collected := p.collected
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].idx < collected[j].idx
	})

	results := make([]Result, len(collected))
	for i, r := range collected {
		results[i] = r.result
	}
	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
