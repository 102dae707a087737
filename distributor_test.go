package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestDistributor(t *testing.T) {
	t.Run("Broadcast delivers to every registrant exactly once", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var dist coro.Distributor[int]

		var got1, got2 int
		var done1, done2 bool

		myExecutor.Spawn(dist.Watch("a", nil).Then(func(co *coro.Coroutine) coro.Result {
			got1, done1 = dist.Value(co), true
			return co.End()
		}))
		myExecutor.Spawn(dist.Watch("b", nil).Then(func(co *coro.Coroutine) coro.Result {
			got2, done2 = dist.Value(co), true
			return co.End()
		}))

		dist.Broadcast(7)

		if !done1 || !done2 {
			t.Fatal("Broadcast should resume every registrant")
		}
		if got1 != 7 || got2 != 7 {
			t.Fatalf("got1=%d got2=%d, want 7, 7", got1, got2)
		}

		// A second broadcast with no registrants should be a no-op.
		dist.Broadcast(9)
	})

	t.Run("KickOut removes a single subscriber by id", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var dist coro.Distributor[string]

		var doneA, doneB bool
		myExecutor.Spawn(dist.Watch("a", nil).Then(coro.Do(func() { doneA = true })))
		myExecutor.Spawn(dist.Watch("b", nil).Then(coro.Do(func() { doneB = true })))

		if !dist.KickOut("a") {
			t.Fatal("KickOut should find registrant \"a\"")
		}
		if !doneA {
			t.Fatal("KickOut should resume the kicked registrant")
		}
		if doneB {
			t.Fatal("KickOut should not disturb the other registrant")
		}
		if dist.KickOut("a") {
			t.Fatal("KickOut should report false once \"a\" is already gone")
		}

		dist.Broadcast("hi")
		if !doneB {
			t.Fatal("the remaining registrant should still receive the broadcast")
		}
	})

	t.Run("Alert preempts a clear-flag registration", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var dist coro.Distributor[int]
		var flag coro.AlertFlag

		done := false
		myExecutor.Spawn(dist.Watch(&flag, &flag).Then(coro.Do(func() { done = true })))

		dist.Alert(&flag)

		if !flag.IsSet() {
			t.Fatal("Alert should set the flag")
		}
		if !done {
			t.Fatal("Alert should resume the registrant watching that flag")
		}
	})

	t.Run("Watch ends immediately if its alert is already set", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		var dist coro.Distributor[int]
		var flag coro.AlertFlag
		flag.Set()

		done := false
		myExecutor.Spawn(dist.Watch(&flag, &flag).Then(coro.Do(func() { done = true })))

		if !done {
			t.Fatal("Watch should end immediately when the alert is already set")
		}
	})
}
