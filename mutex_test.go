package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestMutex(t *testing.T) {
	t.Run("TryLock excludes", func(t *testing.T) {
		var mu coro.Mutex

		o1, ok := mu.TryLock()
		if !ok {
			t.Fatal("TryLock should succeed on an unlocked mutex")
		}
		if _, ok := mu.TryLock(); ok {
			t.Fatal("TryLock should fail while already locked")
		}

		o1.Release()
		if _, ok := mu.TryLock(); !ok {
			t.Fatal("TryLock should succeed again after Release")
		}
	})

	t.Run("Lock waits for Release", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var mu coro.Mutex
		held, _ := mu.TryLock()

		var got coro.Ownership
		done := false
		myExecutor.Spawn(mu.Lock(&got).Then(coro.Do(func() { done = true })))

		if done {
			t.Fatal("Lock should not complete while mu is held")
		}

		held.Release()

		if !done {
			t.Fatal("Lock should complete once mu is released")
		}
		if !got.Owns() {
			t.Fatal("Lock should have produced a valid Ownership")
		}
	})
}

func TestMultiLock(t *testing.T) {
	t.Run("duplicate mutex panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("NewMultiLock should panic on a duplicate mutex")
			}
		}()
		var mu coro.Mutex
		coro.NewMultiLock(&mu, &mu)
	})

	t.Run("avoids deadlock on reversed order", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var m1, m2 coro.Mutex
		ab := coro.NewMultiLock(&m1, &m2)
		ba := coro.NewMultiLock(&m2, &m1)

		var got1, got2 []coro.Ownership
		var done1, done2 bool

		myExecutor.Spawn(ab.Lock(&got1).Then(coro.Do(func() { done1 = true })))
		myExecutor.Spawn(ba.Lock(&got2).Then(coro.Do(func() { done2 = true })))

		if !done1 || done2 {
			t.Fatal("ab should win immediately (spawned and run first) while ba waits")
		}

		for _, o := range got1 {
			o.Release()
		}
		for _, o := range got2 {
			o.Release()
		}

		if !done1 || !done2 {
			t.Fatal("both MultiLocks should eventually complete")
		}
	})
}
