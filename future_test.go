package coro_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/outbound-coro/coro"
)

func TestFuture(t *testing.T) {
	t.Run("NewFutureValue is ready immediately", func(t *testing.T) {
		f := coro.NewFutureValue(42)
		if !f.IsReady() {
			t.Fatal("NewFutureValue should be ready")
		}
		var v int
		var err error
		if !f.TryGet(&v, &err) || v != 42 || err != nil {
			t.Fatalf("TryGet = %d, %v, want 42, nil", v, err)
		}
	})

	t.Run("NewFutureError panics on nil", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("NewFutureError should panic on a nil error")
			}
		}()
		coro.NewFutureError[int](nil)
	})

	t.Run("Await resolves once and stays resolved", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		f, r := coro.NewFuture[string]()

		var v1, v2 string
		var e1, e2 error
		done1, done2 := false, false

		myExecutor.Spawn(f.Await(&v1, &e1).Then(coro.Do(func() { done1 = true })))
		r.Fulfill("hello")
		myExecutor.Spawn(f.Await(&v2, &e2).Then(coro.Do(func() { done2 = true })))

		if !done1 || !done2 {
			t.Fatal("both Awaits should have completed")
		}
		if v1 != "hello" || v2 != "hello" {
			t.Fatalf("v1=%q v2=%q, want both \"hello\"", v1, v2)
		}
	})

	t.Run("FutureResult is one-shot", func(t *testing.T) {
		_, r := coro.NewFuture[int]()
		r.Fulfill(1)
		defer func() {
			if recover() == nil {
				t.Fatal("a second Fulfill/Fail should panic")
			}
		}()
		r.Fail(errors.New("too late"))
	})

	t.Run("abandoning the result resolves to ErrFutureAbandoned", func(t *testing.T) {
		f := new(coro.Future[int])
		func() {
			r := f.Pending()
			_ = r
		}()

		runtime.GC()
		runtime.GC()

		var v int
		var err error
		deadline := 0
		for !f.IsReady() && deadline < 100 {
			runtime.GC()
			deadline++
		}
		if !f.TryGet(&v, &err) {
			t.Skip("AddCleanup had not run yet; GC timing is not guaranteed")
		}
		if !errors.Is(err, coro.ErrFutureAbandoned) {
			t.Fatalf("err = %v, want ErrFutureAbandoned", err)
		}
	})

	t.Run("abandoning the result wakes a parked awaiter", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		f := new(coro.Future[int])
		var v int
		var err error
		done := false

		func() {
			r := f.Pending()
			myExecutor.Spawn(f.Await(&v, &err).Then(coro.Do(func() { done = true })))
			_ = r
		}()

		deadline := 0
		for !done && deadline < 100 {
			runtime.GC()
			deadline++
		}
		if !done {
			t.Skip("AddCleanup had not run yet; GC timing is not guaranteed")
		}
		if !errors.Is(err, coro.ErrFutureAbandoned) {
			t.Fatalf("err = %v, want ErrFutureAbandoned", err)
		}
	})
}
