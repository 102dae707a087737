package coro

import "slices"

// Semaphore provides a way to bound asynchronous access to a resource.
// The callers can request access with a given weight.
//
// Note that this Semaphore type does not provide backpressure for spawning
// a lot of tasks. One should instead look for a sync implementation.
//
// A Semaphore must not be shared by more than one [Executor].
type Semaphore struct {
	size    int64
	cur     int64
	waiters []*waiter
}

// NewSemaphore creates a new weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// Acquire returns a [Task] that awaits until a weight of n is acquired from
// the semaphore, and then ends.
func (s *Semaphore) Acquire(n int64) Task {
	if n < 0 {
		panic("coro(Semaphore): negative weight")
	}
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[waiter](), newFor[waiter]())
		switch w.state {
		case waiterGranted:
			w.state = waiterIdle
			s.cur += w.n // Taken back after Cleanup returned it.
			return co.End()
		case waiterPending:
			co.Watch(w)
			return co.Yield()
		}
		if s.size-s.cur < n || len(s.waiters) != 0 {
			if n > s.size {
				return co.Await().Reiterate() // Impossible to succeed.
			}
			w.s, w.n, w.state = s, n, waiterPending
			s.waiters = append(s.waiters, w)
			co.Cleanup(w)
			co.Watch(w)
			return co.Yield()
		}
		s.cur += n
		return co.End()
	}
}

// TryAcquire reports whether a weight of n can be acquired from the
// semaphore without waiting, and if so, acquires it.
//
// One should only call this method in a [Task] function.
func (s *Semaphore) TryAcquire(n int64) bool {
	if n < 0 {
		panic("coro(Semaphore): negative weight")
	}
	if s.size-s.cur < n || len(s.waiters) != 0 {
		return false
	}
	s.cur += n
	return true
}

// Release releases the semaphore with a weight of n.
//
// One should only call this method in a [Task] function.
func (s *Semaphore) Release(n int64) {
	if n < 0 {
		panic("coro(Semaphore): negative weight")
	}
	if s.cur >= 0 {
		s.cur -= n
	}
	if s.cur < 0 {
		panic("coro(Semaphore): released more than held")
	}
	s.notifyWaiters()
}

func (s *Semaphore) notifyWaiters() {
	i := 0
	for _, w := range s.waiters {
		if s.size-s.cur < w.n {
			break
		}
		s.cur += w.n
		w.state = waiterGranted
		w.Notify()
		i++
	}
	s.waiters = slices.Delete(s.waiters, 0, i)
}

type waiterState int8

const (
	waiterIdle waiterState = iota
	waiterPending
	waiterGranted
)

type waiter struct {
	Signal
	s     *Semaphore
	n     int64
	state waiterState
}

// Cleanup runs right before a resumed waiter's task re-runs, and also when
// its coroutine is canceled. A granted weight is handed back here; Acquire
// takes it again if the task does re-run, so a canceled waiter keeps none.
func (w *waiter) Cleanup() {
	switch w.state {
	case waiterPending:
		w.s.removeWaiter(w)
	case waiterGranted:
		w.s.cur -= w.n
	}
	w.s = nil
}

func (s *Semaphore) removeWaiter(w *waiter) {
	if i := slices.Index(s.waiters, w); i != -1 {
		s.waiters = slices.Delete(s.waiters, i, i+1)
		s.notifyWaiters()
	}
}
