package coro

import "slices"

// A Mutex provides mutually exclusive access to a resource across
// coroutines. Unlike a plain [Semaphore] of size one, locking a Mutex
// yields an [Ownership] capability: releasing it is what unlocks the
// mutex, so ownership can be carried around, passed to another function,
// or held across further awaits, rather than unlocked where it was locked.
//
// A Mutex must not be shared by more than one [Executor].
type Mutex struct {
	locked  bool
	waiters []*mutexWaiter
}

// Ownership represents a held [Mutex] lock.
//
// The zero value owns nothing; [Ownership.Owns] reports false for it.
// Ownership is not safe for concurrent use, and must not be copied after
// first use other than by [Ownership.Release] handing it off.
type Ownership struct {
	mu *Mutex
}

// Owns reports whether o currently owns a lock.
func (o Ownership) Owns() bool {
	return o.mu != nil
}

// Release releases the lock held by o, resuming the next waiter of the
// mutex, if any. Release is a no-op if o does not currently own a lock.
//
// One should only call this method in a [Task] function.
func (o *Ownership) Release() {
	mu := o.mu
	if mu == nil {
		return
	}
	o.mu = nil
	mu.unlock()
}

// TryLock reports whether mu can be locked without waiting, and if so,
// locks it and returns the resulting [Ownership].
func (mu *Mutex) TryLock() (Ownership, bool) {
	if mu.locked {
		return Ownership{}, false
	}
	mu.locked = true
	return Ownership{mu: mu}, true
}

// Lock returns a [Task] that awaits exclusive ownership of mu, stores it
// into *o, and then ends.
func (mu *Mutex) Lock(o *Ownership) Task {
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[mutexWaiter](), newFor[mutexWaiter]())
		switch w.state {
		case waiterGranted:
			w.state = waiterIdle
			*o = Ownership{mu: mu}
			return co.End()
		case waiterPending:
			co.Watch(w)
			return co.Yield()
		}
		if own, ok := mu.TryLock(); ok {
			*o = own
			return co.End()
		}
		w.mu, w.state = mu, waiterPending
		mu.waiters = append(mu.waiters, w)
		co.Cleanup(w)
		co.Watch(w)
		return co.Yield()
	}
}

func (mu *Mutex) unlock() {
	mu.locked = false
	if len(mu.waiters) == 0 {
		return
	}
	w := mu.waiters[0]
	mu.waiters = slices.Delete(mu.waiters, 0, 1)
	mu.locked = true
	w.state = waiterGranted
	w.Notify()
}

type mutexWaiter struct {
	Signal
	mu    *Mutex
	state waiterState
}

func (w *mutexWaiter) Cleanup() {
	if w.state == waiterPending {
		if i := slices.Index(w.mu.waiters, w); i != -1 {
			w.mu.waiters = slices.Delete(w.mu.waiters, i, i+1)
		}
	}
	w.mu = nil
}

// MultiLock locks a fixed list of mutexes together, avoiding deadlock
// against any other MultiLock operating on an overlapping set of mutexes
// (for example, locking [m1, m2] concurrently with [m2, m1]).
//
// Deadlock avoidance works by rotation: each attempt starts at the mutex
// that failed to lock last time rather than always at index zero, so two
// MultiLocks racing over the same mutexes in different orders eventually
// align on the same starting point and one of them wins outright.
//
// A MultiLock must not be shared by more than one [Executor].
type MultiLock struct {
	mus   []*Mutex
	owns  []Ownership
	first int
}

// NewMultiLock creates a [MultiLock] over the given mutexes.
// Passing the same *Mutex twice panics.
func NewMultiLock(mus ...*Mutex) *MultiLock {
	for i, a := range mus {
		for _, b := range mus[i+1:] {
			if a == b {
				panic("coro(MultiLock): duplicate mutex")
			}
		}
	}
	return &MultiLock{mus: slices.Clone(mus)}
}

// Lock returns a [Task] that awaits ownership of every mutex in ml, stores
// the per-mutex ownerships into *o (in the same order ml was built with),
// and then ends.
func (ml *MultiLock) Lock(o *[]Ownership) Task {
	return func(co *Coroutine) Result {
		n := len(ml.mus)
		if ml.owns == nil {
			ml.owns = make([]Ownership, n)
		}

		w := cacheFor(co, keyFor[mutexWaiter](), newFor[mutexWaiter]())
		if w.state == waiterPending {
			co.Watch(w)
			return co.Yield()
		}
		if w.state == waiterGranted {
			w.state = waiterIdle
			ml.owns[ml.first] = Ownership{mu: ml.mus[ml.first]}
		}

		for {
			if ml.owns[ml.first].mu == nil {
				if own, ok := ml.mus[ml.first].TryLock(); ok {
					ml.owns[ml.first] = own
				} else {
					target := ml.mus[ml.first]
					w.mu, w.state = target, waiterPending
					target.waiters = append(target.waiters, w)
					co.Cleanup(w)
					co.Watch(w)
					return co.Yield()
				}
			}

			failed := -1
			for i := 1; i < n; i++ {
				idx := (ml.first + i) % n
				if own, ok := ml.mus[idx].TryLock(); ok {
					ml.owns[idx] = own
					continue
				}
				failed = idx
				break
			}
			if failed == -1 {
				*o = ml.owns
				ml.owns = make([]Ownership, n)
				return co.End()
			}
			for i, own := range ml.owns {
				if own.mu != nil {
					own.Release()
					ml.owns[i] = Ownership{}
				}
			}
			ml.first = failed
		}
	}
}
