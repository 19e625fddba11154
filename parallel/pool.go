// Package parallel runs closures on a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers is a worker count as given on the command line. Values below 1
// mean GOMAXPROCS.
type Workers int

// Start launches a pool sized by w.
func (w Workers) Start() *Pool {
	return Start(int(w))
}

// Pool runs submitted closures on its workers. A pool with a single worker
// runs each closure inline in Do.
type Pool struct {
	wg    sync.WaitGroup
	work  chan func()
	size  int
	close func()
}

// Start launches numWorkers workers, or GOMAXPROCS workers when
// numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		size:  numWorkers,
		close: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

// Size is the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Do submits f, blocking while all workers are busy and the queue is full.
// Do must not be called after Wait.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting work and blocks until every submitted closure has
// returned. It is safe to call more than once.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}

// Each calls fn for every item on a temporary pool of numWorkers workers
// and returns once all calls are done.
func Each[T any](numWorkers int, items []T, fn func(T)) {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	pool := Start(min(numWorkers, max(len(items), 1)))
	for _, item := range items {
		pool.Do(func() { fn(item) })
	}
	pool.Wait()
}
