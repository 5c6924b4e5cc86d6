package worker

import "sync"

// Job produces one result. Jobs must be independent; the pool gives no
// ordering guarantee across jobs.
type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

// Pool fans independent jobs out over a fixed set of workers. Used for
// the per-triple rescoring pass, where every (learner, level, topic)
// unit is independent of the others.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		p.results <- Result[T]{
			JobID:  job.id,
			Output: job.fn(),
		}
		p.wg.Done()
	}
}

func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.wg.Add(1)
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs and closes the results channel once every
// submitted job has finished.
func (p *Pool[T]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}
