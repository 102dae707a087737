package coro

import "sync"

// An Executor is a [Coroutine] spawner, and a [Coroutine] runner.
//
// When a coroutine is spawned or resumed, it is added into an internal queue.
// The Run method then pops and runs each of them from the queue until
// the queue is emptied.
// It is done in a single-threaded manner.
// If one coroutine blocks, no other coroutines can run.
// The best practice is not to block.
//
// The internal queue is a priority queue.
// Coroutines added in the queue are sorted by weight (highest first), then
// by level (shallowest first), then by arrival order (FIFO).
// Popping the queue removes the first coroutine with the highest priority.
//
// Manually calling the Run method is usually not desired.
// One would instead use the Autorun method to set up an autorun function to
// calling the Run method automatically whenever a coroutine is spawned or
// resumed.
// The Executor never calls the autorun function twice at the same time.
type Executor struct {
	mu       sync.Mutex
	pq       priorityqueue[*Coroutine]
	running  bool
	autorun  func()
	coroPool sync.Pool
	ps       panicstack
}

// Autorun sets up an autorun function to calling the Run method automatically
// whenever a [Coroutine] is spawned or resumed.
//
// One must pass a function that calls the Run method.
//
// If f blocks, the Spawn method may block too.
// The best practice is not to block.
func (e *Executor) Autorun(f func()) {
	e.autorun = f
}

// Run pops and runs every [Coroutine] in the queue until the queue is
// emptied.
//
// Run must not be called twice at the same time.
//
// If a root coroutine ends while panicking, the panic is collected and
// re-raised from Run after the queue is drained, so that one root
// coroutine's panic does not prevent the rest of the queue from running.
func (e *Executor) Run() {
	e.mu.Lock()
	e.running = true

	for !e.pq.Empty() {
		co := e.pq.Pop()
		e.runCoroutine(co)
	}

	e.running = false

	ps := e.ps
	e.ps = nil

	e.mu.Unlock()

	ps.Repanic()
}

func (e *Executor) coroutinePool() *sync.Pool {
	return &e.coroPool
}

// Spawn creates a root [Coroutine] to run t.
//
// The coroutine is added in a queue. To run it, either call the Run method,
// or call the Autorun method to set up an autorun function beforehand.
//
// Spawn is safe for concurrent use.
func (e *Executor) Spawn(t Task) {
	co := e.newCoroutine().init(e, t).recyclable()
	e.resumeCoroutine(co, true)
}
