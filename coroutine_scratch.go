package coro

import "reflect"

// keyFor returns a key stable for type T, suitable for use with cacheFor.
func keyFor[T any]() any {
	return reflect.TypeFor[T]()
}

// newFor returns a pointer to a new zero-value T, suitable for use as the
// def argument to cacheFor.
func newFor[T any]() *T {
	return new(T)
}

// cacheFor returns the value previously stored in co's scratch storage under
// key, or stores and returns def if none is present yet.
//
// A [Task] function is re-invoked from scratch on every resume of its
// coroutine, so it cannot keep state in local variables across resumes.
// cacheFor gives such a function a place to keep a single long-lived value
// (typically a waiter record it registers as an [Event]) that survives for
// the lifetime of the coroutine. The value is discarded when the coroutine
// ends.
func cacheFor[T any](co *Coroutine, key any, def *T) *T {
	if v, ok := co.scratch[key]; ok {
		return v.(*T)
	}
	if co.scratch == nil {
		co.scratch = make(map[any]any, 1)
	}
	co.scratch[key] = def
	return def
}
