package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestGenerator(t *testing.T) {
	t.Run("yields values in order, then reports done", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		gen := coro.NewGenerator(func(yield func(int) coro.Task) coro.Task {
			return coro.Block(
				yield(1),
				yield(2),
				yield(3),
			)
		})

		var got []int
		var ok bool
		for i := 0; i < 4; i++ {
			var v int
			myExecutor.Spawn(gen.Next(&v, &ok))
			if !ok {
				break
			}
			got = append(got, v)
		}

		want := []int{1, 2, 3}
		if len(got) != len(want) {
			t.Fatalf("got = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got = %v, want %v", got, want)
			}
		}
		if ok {
			t.Fatal("the fourth Next should report no more values")
		}
	})

	t.Run("fibonacci sequence", func(t *testing.T) {
		var myExecutor coro.Executor
		myExecutor.Autorun(myExecutor.Run)

		gen := coro.NewGenerator(func(yield func(int) coro.Task) coro.Task {
			a, b := 0, 1
			return coro.Loop(coro.Block(
				func(co *coro.Coroutine) coro.Result { return co.Transition(yield(a)) },
				coro.Do(func() { a, b = b, a+b }),
			))
		})

		want := []int{0, 1, 1, 2, 3, 5, 8, 13}
		for _, w := range want {
			var v int
			var ok bool
			myExecutor.Spawn(gen.Next(&v, &ok))
			if !ok || v != w {
				t.Fatalf("v=%d ok=%v, want %d, true", v, ok, w)
			}
		}
	})
}

func TestParamGenerator(t *testing.T) {
	var myExecutor coro.Executor
	myExecutor.Autorun(myExecutor.Run)

	gen := coro.NewParamGenerator(func(yield func(int) coro.Task, param func(*int) coro.Task) coro.Task {
		total := 0
		return coro.Block(
			yield(total),
			coro.Loop(coro.Block(
				func(co *coro.Coroutine) coro.Result {
					var p int
					return co.Transition(param(&p).Then(coro.Do(func() { total += p })))
				},
				func(co *coro.Coroutine) coro.Result { return co.Transition(yield(total)) },
			)),
		)
	})

	var v int
	var ok bool
	myExecutor.Spawn(gen.Start(&v, &ok))
	if !ok || v != 0 {
		t.Fatalf("Start: v=%d ok=%v, want 0, true", v, ok)
	}

	myExecutor.Spawn(gen.Call(10, &v, &ok))
	if !ok || v != 10 {
		t.Fatalf("Call(10): v=%d ok=%v, want 10, true", v, ok)
	}

	myExecutor.Spawn(gen.Call(5, &v, &ok))
	if !ok || v != 15 {
		t.Fatalf("Call(5): v=%d ok=%v, want 15, true", v, ok)
	}
}
