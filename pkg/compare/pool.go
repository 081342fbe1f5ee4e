package compare

import (
	"fmt"
	"math"
	"sync"
)

// workerPool fans independent comparisons out over a fixed set of
// goroutines. Comparisons are embarrassingly parallel across pairs; there
// is no parallelism inside a single pair's refinement.
type workerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex
	closed    bool
}

// maxPoolWorkers prevents overflow in the queue buffer size calculation.
const maxPoolWorkers = math.MaxInt / 2

func newWorkerPool(workers int) (*workerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > maxPoolWorkers {
		return nil, fmt.Errorf("worker count %d exceeds maximum %d", workers, maxPoolWorkers)
	}

	pool := &workerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		// A panicking comparison must not take the worker down with it;
		// the pair's result slot simply stays empty.
		func() {
			defer func() { recover() }()
			task()
		}()
	}
}

// submit queues a task. Returns false if the pool is already closed.
func (wp *workerPool) submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// close drains the queue and waits for all workers to finish.
func (wp *workerPool) close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
