// Package worker provides the fixed goroutine pool that runs bone-weight
// computations. Submission is fire-and-forget: the mutation thread queues
// tasks without waking anyone, then broadcasts one wake signal per batch.
package worker

import (
	"runtime"
	"sync"
)

// Task is a unit of background computation. Once queued it always runs to
// completion; the pool has no cancellation.
type Task func()

// Pool runs tasks on a fixed set of goroutines.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []Task
	active int
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts n workers. A non-positive n uses the CPU count.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

// Push queues a task without signaling the workers. Call WakeAll after a
// batch so submission never blocks on execution.
func (p *Pool) Push(t Task) {
	if t == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("worker: push on closed pool")
	}
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()
}

// WakeAll signals every sleeping worker once.
func (p *Pool) WakeAll() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Drain blocks until the queue is empty and no task is running.
func (p *Pool) Drain() {
	p.mu.Lock()
	p.cond.Broadcast()
	for len(p.tasks) > 0 || p.active > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Close runs any queued tasks to completion and stops the workers.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	p.mu.Lock()
	for {
		for len(p.tasks) == 0 {
			if p.closed {
				p.mu.Unlock()
				return
			}
			p.cond.Wait()
		}
		t := p.tasks[0]
		p.tasks = p.tasks[1:]
		p.active++
		p.mu.Unlock()

		t()

		p.mu.Lock()
		p.active--
		if len(p.tasks) == 0 && p.active == 0 {
			p.cond.Broadcast()
		}
	}
}
