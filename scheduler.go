package coro

import (
	"container/heap"
	"sync"
	"time"
)

// A Scheduler wakes suspended coroutines at scheduled times using a
// background goroutine and the real clock.
//
// Unlike most primitives in this package, a Scheduler is safe to use
// concurrently and may be shared across coroutines spawned on different
// Executors, because waking a coroutine goes through [Coroutine.Resume],
// which is itself safe for concurrent use.
//
// For deterministic tests, use [ManualScheduler] instead, which fires due
// entries on demand rather than against the real clock.
type Scheduler struct {
	mu     sync.Mutex
	h      schedHeap
	wakeCh chan struct{}
	stopCh chan struct{}
	once   sync.Once
}

func (s *Scheduler) ensureRunning() {
	s.once.Do(func() {
		s.wakeCh = make(chan struct{}, 1)
		s.stopCh = make(chan struct{})
		go s.loop()
	})
}

func (s *Scheduler) loop() {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		s.mu.Lock()
		hasNext := len(s.h) != 0
		var wait time.Duration
		if hasNext {
			wait = time.Until(s.h[0].deadline)
		}
		s.mu.Unlock()

		switch {
		case !hasNext:
			select {
			case <-s.wakeCh:
			case <-s.stopCh:
				return
			}
		case wait <= 0:
			s.fireDue()
		default:
			timer.Reset(wait)
			select {
			case <-timer.C:
				s.fireDue()
			case <-s.wakeCh:
				if !timer.Stop() {
					<-timer.C
				}
			case <-s.stopCh:
				if !timer.Stop() {
					<-timer.C
				}
				return
			}
		}
	}
}

func (s *Scheduler) fireDue() {
	now := time.Now()
	for {
		s.mu.Lock()
		if len(s.h) == 0 || s.h[0].deadline.After(now) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.h).(*schedEntry)
		s.mu.Unlock()
		e.w.fired = true
		e.co.Resume()
	}
}

func (s *Scheduler) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// Stop permanently stops the [Scheduler]'s background goroutine.
// A stopped Scheduler must not be used again.
func (s *Scheduler) Stop() {
	s.ensureRunning()
	close(s.stopCh)
}

// SleepUntil returns a [Task] that suspends co until t, and then ends.
// The ident is retained for a later [Scheduler.Cancel] or [Scheduler.SetTime]
// call; pass nil if none is needed.
func (s *Scheduler) SleepUntil(t time.Time, ident any) Task {
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[schedWaiter](), newFor[schedWaiter]())
		if w.fired {
			w.fired = false
			return co.End()
		}
		s.ensureRunning()
		s.mu.Lock()
		wasEarliest := len(s.h) == 0 || t.Before(s.h[0].deadline)
		e := &schedEntry{deadline: t, co: co, ident: ident, w: w}
		w.entry, w.owner = e, s
		heap.Push(&s.h, e)
		s.mu.Unlock()
		co.Cleanup(w)
		if wasEarliest {
			s.wake()
		}
		return co.Yield()
	}
}

// SleepFor returns a [Task] that suspends co for d, and then ends.
func (s *Scheduler) SleepFor(d time.Duration, ident any) Task {
	return func(co *Coroutine) Result {
		return s.SleepUntil(time.Now().Add(d), ident)(co)
	}
}

// SleepUntilAlertable is like [Scheduler.SleepUntil], but ends immediately
// without sleeping if flag is already set, and can be woken early by
// [Scheduler.Alert].
func (s *Scheduler) SleepUntilAlertable(flag *AlertFlag, t time.Time, ident any) Task {
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[schedWaiter](), newFor[schedWaiter]())
		if w.fired {
			w.fired = false
			return co.End()
		}
		if flag.IsSet() {
			return co.End()
		}
		return s.SleepUntil(t, ident)(co)
	}
}

// SleepForAlertable is like [Scheduler.SleepFor], but ends immediately
// without sleeping if flag is already set, and can be woken early by
// [Scheduler.Alert].
func (s *Scheduler) SleepForAlertable(flag *AlertFlag, d time.Duration, ident any) Task {
	return func(co *Coroutine) Result {
		return s.SleepUntilAlertable(flag, time.Now().Add(d), ident)(co)
	}
}

// Cancel removes the sleeping entry registered under ident, if any, and
// resumes its coroutine immediately. It reports whether an entry was
// found.
func (s *Scheduler) Cancel(ident any) bool {
	s.mu.Lock()
	e := s.h.removeByIdent(ident)
	s.mu.Unlock()
	if e == nil {
		return false
	}
	e.w.fired = true
	e.co.Resume()
	return true
}

// SetTime reschedules the sleeping entry registered under ident, if any,
// to fire at t instead, repositioning it in the heap. It reports whether
// an entry was found.
func (s *Scheduler) SetTime(ident any, t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.h {
		if e.ident == ident {
			e.deadline = t
			heap.Fix(&s.h, e.index)
			s.wake()
			return true
		}
	}
	return false
}

// Alert sets flag and, if a coroutine is currently sleeping via
// [Scheduler.SleepUntilAlertable] or [Scheduler.SleepForAlertable] under
// ident, wakes it immediately.
func (s *Scheduler) Alert(ident any, flag *AlertFlag) {
	flag.Set()
	s.SetTime(ident, time.Time{})
}

type schedOwner interface {
	removeEntry(e *schedEntry)
}

func (s *Scheduler) removeEntry(e *schedEntry) {
	s.mu.Lock()
	if e.index >= 0 {
		heap.Remove(&s.h, e.index)
	}
	s.mu.Unlock()
}

func (m *ManualScheduler) removeEntry(e *schedEntry) {
	if e.index >= 0 {
		heap.Remove(&m.h, e.index)
	}
}

type schedWaiter struct {
	fired bool
	entry *schedEntry
	owner schedOwner
}

func (w *schedWaiter) Cleanup() {
	if w.owner != nil && !w.fired {
		w.owner.removeEntry(w.entry)
	}
	w.owner, w.entry = nil, nil
}

type schedEntry struct {
	deadline time.Time
	co       *Coroutine
	ident    any
	w        *schedWaiter
	index    int
}

type schedHeap []*schedEntry

func (h schedHeap) Len() int { return len(h) }

func (h schedHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }

func (h schedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}

func (h *schedHeap) Push(x any) {
	e := x.(*schedEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *schedHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

func (h *schedHeap) removeByIdent(ident any) *schedEntry {
	for i, e := range *h {
		if e.ident == ident {
			return heap.Remove(h, i).(*schedEntry)
		}
	}
	return nil
}

// ManualScheduler is a [Scheduler]-shaped timer source driven by virtual
// time instead of the real clock, for deterministic tests. Nothing fires
// until [ManualScheduler.Advance] or [ManualScheduler.AdvanceTo] is called.
type ManualScheduler struct {
	now time.Time
	h   schedHeap
}

// NewManualScheduler creates a [ManualScheduler] with its virtual clock set
// to t.
func NewManualScheduler(t time.Time) *ManualScheduler {
	return &ManualScheduler{now: t}
}

// Now reports the scheduler's current virtual time.
func (m *ManualScheduler) Now() time.Time { return m.now }

// SleepUntil returns a [Task] that suspends co until the scheduler's
// virtual clock reaches t, and then ends.
func (m *ManualScheduler) SleepUntil(t time.Time, ident any) Task {
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[schedWaiter](), newFor[schedWaiter]())
		if w.fired {
			w.fired = false
			return co.End()
		}
		if !t.After(m.now) {
			return co.End()
		}
		e := &schedEntry{deadline: t, co: co, ident: ident, w: w}
		w.entry, w.owner = e, m
		heap.Push(&m.h, e)
		co.Cleanup(w)
		return co.Yield()
	}
}

// SleepFor returns a [Task] that suspends co for d of virtual time, and
// then ends.
func (m *ManualScheduler) SleepFor(d time.Duration, ident any) Task {
	return func(co *Coroutine) Result {
		return m.SleepUntil(m.now.Add(d), ident)(co)
	}
}

// Advance moves the virtual clock forward by d, synchronously resuming
// every coroutine whose deadline falls at or before the new time, in
// deadline order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves the virtual clock to t (a no-op if t is not after the
// current virtual time), synchronously resuming every coroutine whose
// deadline falls at or before t, in deadline order.
func (m *ManualScheduler) AdvanceTo(t time.Time) {
	if !t.After(m.now) {
		return
	}
	m.now = t
	for len(m.h) != 0 && !m.h[0].deadline.After(m.now) {
		e := heap.Pop(&m.h).(*schedEntry)
		e.w.fired = true
		e.co.Resume()
	}
}

// Pending reports the number of coroutines currently sleeping on m.
func (m *ManualScheduler) Pending() int { return len(m.h) }

// RunUntil sets e to drain its queue on every spawn or resume, spawns t
// on e, and blocks the calling goroutine until t ends.
//
// This is meant for synchronously waiting on a Task from outside any
// Coroutine (e.g. at the top of a program or in a test), including
// waiting across any real-time deadlines registered with a [Scheduler]
// along the way, mirroring the C++ original's single-shot
// await(awaiter) helper that runs a private scheduler loop until one
// particular awaitable completes.
func RunUntil(e *Executor, t Task) {
	done := make(chan struct{})
	e.Autorun(e.Run)
	e.Spawn(t.Then(Do(func() { close(done) })))
	<-done
}
