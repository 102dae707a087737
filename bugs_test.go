package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestBugs(t *testing.T) {
	t.Run("Semaphore-1", func(t *testing.T) {
		var myExecutor coro.Executor

		myExecutor.Autorun(myExecutor.Run)

		sema := coro.NewSemaphore(1)

		myExecutor.Spawn(coro.Select(
			coro.Block(
				sema.Acquire(1),
				sema.Acquire(1),
			),
			coro.Do(func() { sema.Release(1) }),
		))

		var acquired bool

		myExecutor.Spawn(coro.Block(
			sema.Acquire(1),
			coro.Do(func() { acquired = true }),
		))

		if !acquired {
			t.Error("Acquire did not succeed when there are no waiters.")
		}
	})
	t.Run("Semaphore-2", func(t *testing.T) {
		var myExecutor coro.Executor

		myExecutor.Autorun(myExecutor.Run)

		sema := coro.NewSemaphore(10)

		var sig coro.Signal

		myExecutor.Spawn(coro.Select(
			coro.Await(&sig),
			coro.Block(
				sema.Acquire(1),
				sema.Acquire(10),
			),
		))

		var acquired bool

		myExecutor.Spawn(coro.Block(
			sema.Acquire(1),
			coro.Do(func() { acquired = true }),
		))

		if acquired {
			t.Error("Acquire should not succeed when there are waiters.")
		}

		myExecutor.Spawn(coro.Do(sig.Notify))

		if !acquired {
			t.Error("Acquire did not succeed when there are no waiters.")
		}
	})
}
