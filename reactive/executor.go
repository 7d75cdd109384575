package reactive

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Executor runs tasks asynchronously.
type Executor interface {
	Execute(task func())
}

// GoExecutor starts one goroutine per task.
type GoExecutor struct{}

func (GoExecutor) Execute(task func()) {
	go task()
}

// PoolExecutor runs tasks on a bounded set of goroutines. Execute blocks
// while every goroutine is busy.
type PoolExecutor struct {
	mu     sync.RWMutex
	closed bool
	pool   *pool.Pool
}

func NewPoolExecutor(maxGoroutines int) *PoolExecutor {
	return &PoolExecutor{
		pool: pool.New().WithMaxGoroutines(max(1, maxGoroutines)),
	}
}

// Execute submits task to the pool. Once Wait has been called, tasks get a
// goroutine of their own instead, so a late submission from a cancelled
// stream still settles its future.
func (e *PoolExecutor) Execute(task func()) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		go task()
		return
	}
	e.pool.Go(task)
}

// Wait blocks until every task submitted to the pool has finished and
// releases its goroutines.
func (e *PoolExecutor) Wait() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	e.pool.Wait()
}
