package coro_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/outbound-coro/coro"
)

func ExampleSemaphore() {
	var wg sync.WaitGroup // For keeping track of goroutines.

	var myExecutor coro.Executor

	myExecutor.Autorun(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			myExecutor.Run()
		}()
	})

	mySemaphore := coro.NewSemaphore(12)

	for n := int64(1); n <= 8; n++ {
		myExecutor.Spawn(mySemaphore.Acquire(n).Then(coro.Do(func() {
			fmt.Println(n)
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(100 * time.Millisecond)
				myExecutor.Spawn(coro.Do(func() { mySemaphore.Release(n) }))
			}()
		})))
	}

	wg.Wait()

	// Output:
	// 1
	// 2
	// 3
	// 4
	// 5
	// 6
	// 7
	// 8
}

func ExampleSemaphore_cancel() {
	var wg sync.WaitGroup // For keeping track of goroutines.

	var myExecutor coro.Executor

	myExecutor.Autorun(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			myExecutor.Run()
		}()
	})

	mySemaphore := coro.NewSemaphore(3)

	myExecutor.Spawn(func(co *coro.Coroutine) coro.Result {
		// Four Acquire calls, only two of them can succeed;
		// the other two get canceled later when co ends.
		for n := int64(1); n <= 4; n++ {
			co.Spawn(mySemaphore.Acquire(n).Then(coro.Do(func() {
				fmt.Println(n)
			})))
		}

		co.Escape()
		wg.Add(1)
		go func(outer *coro.Coroutine) {
			defer wg.Done()
			time.Sleep(100 * time.Millisecond)
			myExecutor.Spawn(coro.Do(func() {
				outer.Unescape()
				outer.Resume()
			}))
		}(co)

		return co.Await().End()
	})

	wg.Wait()

	// Output:
	// 1
	// 2
}
