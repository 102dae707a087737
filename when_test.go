package coro_test

import (
	"testing"

	"github.com/outbound-coro/coro"
)

func TestWhenAll(t *testing.T) {
	var myExecutor coro.Executor
	myExecutor.Autorun(myExecutor.Run)

	f1, r1 := coro.NewFuture[int]()
	f2, r2 := coro.NewFuture[int]()

	done := false
	myExecutor.Spawn(coro.WhenAll(f1, f2).Then(coro.Do(func() { done = true })))

	if done {
		t.Fatal("WhenAll should not complete until every future resolves")
	}

	r1.Fulfill(1)
	if done {
		t.Fatal("WhenAll should not complete with only one of two futures resolved")
	}

	r2.Fulfill(2)
	if !done {
		t.Fatal("WhenAll should complete once every future resolves")
	}
}

func TestWhenAllEmpty(t *testing.T) {
	var myExecutor coro.Executor
	myExecutor.Autorun(myExecutor.Run)

	done := false
	myExecutor.Spawn(coro.WhenAll[int]().Then(coro.Do(func() { done = true })))
	if !done {
		t.Fatal("WhenAll with no futures should end immediately")
	}
}

func TestWhenEach(t *testing.T) {
	var myExecutor coro.Executor
	myExecutor.Autorun(myExecutor.Run)

	f1, r1 := coro.NewFuture[string]()
	f2, r2 := coro.NewFuture[string]()
	f3, r3 := coro.NewFuture[string]()

	each := coro.WhenEach(f1, f2, f3)

	r2.Fulfill("second")

	var idx int
	var v string
	var err error
	myExecutor.Spawn(each.Next(&idx, &v, &err))

	if idx != 1 || v != "second" {
		t.Fatalf("idx=%d v=%q, want 1, \"second\" (completion order, not argument order)", idx, v)
	}
	if each.Done() {
		t.Fatal("Done should be false with two futures left to consume")
	}

	r1.Fulfill("first")
	r3.Fulfill("third")

	myExecutor.Spawn(each.Next(&idx, &v, &err))
	if idx != 0 && idx != 2 {
		t.Fatalf("idx=%d, want 0 or 2", idx)
	}
	myExecutor.Spawn(each.Next(&idx, &v, &err))

	if !each.Done() {
		t.Fatal("Done should be true once all three are consumed")
	}
}
