package coro

import (
	"errors"
	"runtime"
	"sync"
)

// ErrFutureAbandoned is the error a [Future] resolves with if its
// [Future.Pending] capability is garbage collected before being fulfilled
// or failed.
var ErrFutureAbandoned = errors.New("coro: future abandoned without a result")

// A Future represents a value of type T that becomes available at some
// point, possibly asynchronously.
//
// A Future starts empty. It transitions exactly once, to either a value
// or an error. Once resolved, it stays resolved forever: every coroutine
// that awaits or polls it afterwards observes the same outcome
// immediately, without waiting.
//
// Unlike most types in this package, a Future's resolution path is safe
// for concurrent use: its [Future.Pending] capability can be resolved by
// the garbage collector, on its own goroutine, racing against whatever
// coroutine is watching the future on its [Executor]. A Future's state
// and its listener set are therefore guarded by a mutex instead of
// relying on the executor's single-goroutine run loop the way [Signal]
// and [State] do.
//
// A Future must not be shared by more than one [Executor].
type Future[T any] struct {
	Signal
	mu       sync.Mutex
	resolved bool
	pending  bool // set once Pending has handed out a FutureResult
	value    T
	err      error
}

// NewFuture returns a new, unresolved [Future], along with the capability
// to resolve it. Prefer [NewFutureTask] or [NewFutureFunc] when the
// producer is already known at construction time; use NewFuture when the
// producer lives outside of a [Task], e.g. a callback-based API.
func NewFuture[T any]() (*Future[T], *FutureResult[T]) {
	f := new(Future[T])
	return f, f.Pending()
}

// NewFutureValue returns a [Future] already resolved with v.
func NewFutureValue[T any](v T) *Future[T] {
	return &Future[T]{resolved: true, value: v}
}

// NewFutureError returns a [Future] already resolved with err.
// NewFutureError panics if err is nil; use [NewFutureValue] for that.
func NewFutureError[T any](err error) *Future[T] {
	if err == nil {
		panic("coro(Future): nil error")
	}
	return &Future[T]{resolved: true, err: err}
}

// NewFutureFunc returns a [Future] resolved by calling f once, immediately.
func NewFutureFunc[T any](f func() (T, error)) *Future[T] {
	v, err := f()
	if err != nil {
		return NewFutureError[T](err)
	}
	return NewFutureValue(v)
}

// NewFutureTask returns a [Future] resolved by spawning t as a root
// coroutine on e and running it to completion exactly once.
func NewFutureTask[T any](e *Executor, t func(co *Coroutine) (T, error)) *Future[T] {
	f := new(Future[T])
	e.Spawn(func(co *Coroutine) Result {
		v, err := t(co)
		if err != nil {
			f.SetError(err)
		} else {
			f.SetValue(v)
		}
		return co.End()
	})
	return f
}

// addListener and removeListener shadow the ones promoted from the
// embedded Signal, so that registering and unregistering a watcher is
// serialized against a concurrent resolution coming from [abandonFuture]
// on the garbage collector's goroutine.
func (f *Future[T]) addListener(co *Coroutine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Signal.addListener(co)
}

func (f *Future[T]) removeListener(co *Coroutine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Signal.removeListener(co)
}

// resolve sets f's value and error if f is not already resolved, detaches
// its listener set under the lock, then resumes each former listener with
// the lock released (mirroring [Scheduler.fireDue]'s pop-under-lock,
// resume-outside-lock pattern, so a resumed coroutine that synchronously
// runs more code on this goroutine can't deadlock on f.mu). It reports
// whether it actually resolved f.
func (f *Future[T]) resolve(v T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value, f.err = v, err
	listeners := f.Signal.listeners
	f.Signal.listeners = nil
	f.mu.Unlock()

	for co := range listeners {
		co.resume()
	}
	return true
}

// SetValue resolves f with v, resuming any coroutine awaiting it.
// SetValue panics if f is already resolved.
func (f *Future[T]) SetValue(v T) {
	if !f.resolve(v, nil) {
		panic("coro(Future): already resolved")
	}
}

// SetError resolves f with err, resuming any coroutine awaiting it.
// SetError panics if f is already resolved, or if err is nil.
func (f *Future[T]) SetError(err error) {
	if err == nil {
		panic("coro(Future): nil error")
	}
	var zero T
	if !f.resolve(zero, err) {
		panic("coro(Future): already resolved")
	}
}

// IsReady reports whether f has resolved, with either a value or an error.
func (f *Future[T]) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// TryGet reports whether f has resolved, and if so, stores its value and
// error into *v and *err.
func (f *Future[T]) TryGet(v *T, err *error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.resolved {
		return false
	}
	*v, *err = f.value, f.err
	return true
}

// Await returns a [Task] that awaits until f resolves, stores its value
// and error into *v and *err, and then ends.
func (f *Future[T]) Await(v *T, err *error) Task {
	return func(co *Coroutine) Result {
		f.mu.Lock()
		resolved := f.resolved
		if resolved {
			*v, *err = f.value, f.err
		}
		f.mu.Unlock()
		if resolved {
			return co.End()
		}
		return co.Await(f).Reiterate()
	}
}

// Pending returns a one-shot capability to resolve f.
//
// Pending is the Go analogue of the C++ result object that backs a
// coroutine future: as long as the returned [FutureResult] is reachable,
// f may still resolve normally through it. If the FutureResult is instead
// dropped (garbage collected) without [FutureResult.Fulfill] or
// [FutureResult.Fail] ever being called, f resolves with
// [ErrFutureAbandoned] as a safety net, mirroring the C++ type's
// resolve-on-destruction guarantee.
//
// Pending panics if f is already resolved, or if Pending has already been
// called on f.
func (f *Future[T]) Pending() *FutureResult[T] {
	f.mu.Lock()
	resolved, pending := f.resolved, f.pending
	f.pending = true
	f.mu.Unlock()
	if resolved {
		panic("coro(Future): already resolved")
	}
	if pending {
		panic("coro(Future): result capability already handed out")
	}
	r := &FutureResult[T]{f: f}
	runtime.AddCleanup(r, abandonFuture[T], f)
	return r
}

// abandonFuture runs on the garbage collector's goroutine; it resolves f
// to [ErrFutureAbandoned] only if nothing resolved it first, via the same
// locked path SetValue and SetError use, rather than racing a separate
// check-then-act against them.
func abandonFuture[T any](f *Future[T]) {
	var zero T
	f.resolve(zero, ErrFutureAbandoned)
}

// FutureResult is a one-shot capability to resolve a [Future], obtained
// from [Future.Pending].
type FutureResult[T any] struct {
	f *Future[T]
}

// Fulfill resolves the associated [Future] with v.
// Fulfill panics if it, or [FutureResult.Fail], has already been called.
func (r *FutureResult[T]) Fulfill(v T) {
	f := r.take()
	f.SetValue(v)
}

// Fail resolves the associated [Future] with err.
// Fail panics if it, or [FutureResult.Fulfill], has already been called.
func (r *FutureResult[T]) Fail(err error) {
	f := r.take()
	f.SetError(err)
}

func (r *FutureResult[T]) take() *Future[T] {
	if r.f == nil {
		panic("coro(Future): result already used")
	}
	f := r.f
	r.f = nil
	return f
}
