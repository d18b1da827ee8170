// Package parallel runs per-row pixel passes across a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// minBandRows is the smallest band handed to a worker. Smaller images are
// processed on the calling goroutine.
const minBandRows = 16

// WorkerPool is a pool of goroutines for row-parallel filter passes.
//
// Each worker owns a queue; idle workers steal from the others so that bands
// containing slower pixels (large blur kernels near edges) do not stall the
// whole pass.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for all of it to
// complete. On a closed pool the work runs on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// ForRows splits [0, height) into contiguous bands and calls fn once per
// band, in parallel, returning when every band is done. A nil pool runs fn
// once over the whole range.
func (p *WorkerPool) ForRows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || height < 2*minBandRows || p.workers == 1 {
		fn(0, height)
		return
	}

	bands := Bands(height, p.workers*2)
	work := make([]func(), len(bands))
	for i, b := range bands {
		y0, y1 := b[0], b[1]
		work[i] = func() { fn(y0, y1) }
	}
	p.ExecuteAll(work)
}

// Bands splits [0, height) into at most n contiguous, non-empty ranges of at
// least minBandRows rows each (the last band absorbs the remainder).
func Bands(height, n int) [][2]int {
	if height <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := max((height+n-1)/n, minBandRows)

	var out [][2]int
	for y := 0; y < height; y += size {
		out = append(out, [2]int{y, min(y+size, height)})
	}
	return out
}

// Close stops the workers after the queued work has run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
