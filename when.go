package coro

import "slices"

// WhenAll returns a [Task] that awaits until every one of fs has resolved,
// and then ends.
//
// With no arguments, WhenAll returns a [Task] that ends immediately.
func WhenAll[T any](fs ...*Future[T]) Task {
	return func(co *Coroutine) Result {
		pending := false
		for _, f := range fs {
			if !f.IsReady() {
				pending = true
				co.Watch(f)
			}
		}
		if pending {
			return co.Yield()
		}
		return co.End()
	}
}

// Each is a completion-order iterator over a fixed set of Futures,
// returned by [WhenEach].
type Each[T any] struct {
	fs     []*Future[T]
	done   []bool
	remain int
}

// WhenEach returns an [Each] iterator over fs, which yields the index and
// result of each future once it has resolved. A future that resolves while
// Next is waiting is returned first; among futures already resolved when
// Next runs, the one with the lowest index is returned first, since the
// order in which they resolved is not recorded.
func WhenEach[T any](fs ...*Future[T]) *Each[T] {
	return &Each[T]{fs: slices.Clone(fs), done: make([]bool, len(fs)), remain: len(fs)}
}

// Next returns a [Task] that awaits the next resolved future (see
// [WhenEach] for the order) among those not yet consumed, stores its index (into the slice WhenEach
// was called with) and result into *idx, *v and *err, and then ends.
//
// Next must only be called again after the previous call's task has
// ended; see [Each.Done] to know when every future has been consumed.
func (e *Each[T]) Next(idx *int, v *T, err *error) Task {
	return func(co *Coroutine) Result {
		for i, f := range e.fs {
			if !e.done[i] && f.IsReady() {
				e.done[i] = true
				e.remain--
				*idx = i
				f.TryGet(v, err)
				return co.End()
			}
		}
		for i, f := range e.fs {
			if !e.done[i] {
				co.Watch(f)
			}
		}
		return co.Yield()
	}
}

// Done reports whether every future given to [WhenEach] has been consumed
// via [Each.Next].
func (e *Each[T]) Done() bool {
	return e.remain == 0
}
