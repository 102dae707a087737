package coro

// A Distributor broadcasts a value of type T to every coroutine currently
// registered with it, exactly once each, then forgets them.
//
// Each registration can carry an opaque ident, used to find and kick out a
// specific registration later (for example, to apply backpressure to one
// particular subscriber), and optionally an [AlertFlag] that lets a
// registration be preempted before a broadcast ever reaches it.
//
// A Distributor must not be shared by more than one [Executor].
type Distributor[T any] struct {
	entries []distEntry[T]
}

type distEntry[T any] struct {
	w  *distWaiter[T]
	id any
}

// Watch returns a [Task] that registers co to receive the next broadcast,
// tagged with the given ident (which may be nil), and awaits it.
//
// If alert is non-nil and already set when Watch runs, the task ends
// immediately without registering or waiting.
func (d *Distributor[T]) Watch(id any, alert *AlertFlag) Task {
	return func(co *Coroutine) Result {
		w := cacheFor(co, keyFor[distWaiter[T]](), newFor[distWaiter[T]]())
		switch w.state {
		case waiterGranted:
			w.state = waiterIdle
			return co.End()
		case waiterPending:
			co.Watch(w)
			return co.Yield()
		}
		if alert != nil && alert.IsSet() {
			return co.End()
		}
		w.d, w.id, w.alert, w.state = d, id, alert, waiterPending
		d.entries = append(d.entries, distEntry[T]{w: w, id: id})
		co.Cleanup(w)
		co.Watch(w)
		return co.Yield()
	}
}

// Value retrieves the value delivered by the most recent [Distributor.Watch]
// that ended this coroutine's registration. It is only meaningful to call
// this immediately after such a task ends.
func (d *Distributor[T]) Value(co *Coroutine) T {
	w := cacheFor(co, keyFor[distWaiter[T]](), newFor[distWaiter[T]]())
	return w.val
}

// Broadcast delivers v to every coroutine currently registered with d, and
// clears the registration list.
func (d *Distributor[T]) Broadcast(v T) {
	entries := d.entries
	d.entries = nil
	for _, e := range entries {
		e.w.val = v
		e.w.state = waiterGranted
		e.w.Notify()
	}
}

// KickOut removes one registration matching id, if any, and resumes it
// (with T's zero value as its received value) without going through a
// broadcast. It reports whether a registration was found.
func (d *Distributor[T]) KickOut(id any) bool {
	for i, e := range d.entries {
		if e.id == id {
			d.swapRemove(i)
			var zero T
			e.w.val = zero
			e.w.state = waiterGranted
			e.w.Notify()
			return true
		}
	}
	return false
}

// Alert sets flag and, if a coroutine is currently registered under flag
// (via [Distributor.Watch] with that alert), removes and resumes it
// immediately with T's zero value.
func (d *Distributor[T]) Alert(flag *AlertFlag) {
	flag.Set()
	for i, e := range d.entries {
		if e.w.alert == flag {
			d.swapRemove(i)
			var zero T
			e.w.val = zero
			e.w.state = waiterGranted
			e.w.Notify()
			return
		}
	}
}

func (d *Distributor[T]) swapRemove(i int) {
	last := len(d.entries) - 1
	d.entries[i] = d.entries[last]
	d.entries = d.entries[:last]
}

type distWaiter[T any] struct {
	Signal
	d     *Distributor[T]
	id    any
	alert *AlertFlag
	val   T
	state waiterState
}

func (w *distWaiter[T]) Cleanup() {
	if w.state == waiterPending && w.d != nil {
		for i, e := range w.d.entries {
			if e.w == w {
				w.d.swapRemove(i)
				break
			}
		}
	}
	w.d = nil
}
