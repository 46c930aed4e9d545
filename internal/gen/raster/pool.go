package raster

import (
	"runtime"
	"sync"
)

// workerPool runs row-range jobs across a fixed set of goroutines. Each
// parallel rasterizer call submits its row chunks and fully joins before
// returning, so callers always observe a synchronous operation.
type workerPool struct {
	numWorkers int
	jobs       chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	started    sync.Once
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &workerPool{
		numWorkers: numWorkers,
		jobs:       make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

func (p *workerPool) start() {
	p.started.Do(func() {
		for i := 0; i < p.numWorkers; i++ {
			go p.worker()
		}
	})
}

func (p *workerPool) worker() {
	for {
		select {
		case job := <-p.jobs:
			job()
			p.wg.Done()
		case <-p.quit:
			return
		}
	}
}

func (p *workerPool) submit(job func()) {
	p.wg.Add(1)
	p.jobs <- job
}

func (p *workerPool) stop() {
	close(p.quit)
}

// forRows applies fn to every row in [y0, y1], partitioned into contiguous
// chunks so each row is visited by exactly one worker.
func (p *workerPool) forRows(y0, y1 int, fn func(y int)) {
	if y0 > y1 {
		return
	}
	p.start()
	total := y1 - y0 + 1
	chunk := max(1, total/p.numWorkers)
	for y := y0; y <= y1; y += chunk {
		start := y
		end := min(y+chunk-1, y1)
		p.submit(func() {
			for r := start; r <= end; r++ {
				fn(r)
			}
		})
	}
	p.wg.Wait()
}
