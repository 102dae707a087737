// Package coro is a dependency-free cooperative concurrency runtime.
//
// Since Go has already done a great job in bringing green/virtual threads
// into life, this library only implements a single-threaded [Executor] type,
// which some refer to as an async runtime.
// One can create as many executors as they like.
//
// While Go excels at forking, coro, on the other hand, excels at joining.
//
// # Use Case #1: Fan-In Executing Code From Goroutines
//
// Wanted to execute pieces of code from goroutines in a single-threaded way?
//
// An [Executor] is designed to be able to run tasks spawned in goroutines
// sequentially.
// This comes in handy when one wants to do a series of operations
// on a single thread, for example, to read or update states that are not
// safe for concurrent access, to write data to the console or a file, to
// update one's user interfaces, etc.
//
// Be aware that there is no back pressure.
// [Task] spawning isn't designed to block.
// If spawning outruns execution, an [Executor] can easily consume a lot of
// memory over time.
// To mitigate, one could introduce a [Semaphore] per hot spot.
//
// # Use Case #2: Event-Driven Reactiveness
//
// A [Task] can be reactive.
//
// A [Task] is spawned with a [Coroutine] to take care of it.
// In this user-provided function, one can return a specific [Result] to tell
// a coroutine to watch and await some events (e.g. [Signal], [State] or a
// [Future]), and the coroutine can just re-run the task whenever any of
// these events notifies.
//
// This is useful when one wants to do something repeatedly.
// It works like a loop. To exit this loop, just return a Result that does
// something different from within the task function. Simple.
//
// # Use Case #3: Easy State Machines Across Goroutine Boundaries
//
// A [Coroutine] can also make a transition from one [Task] to another, just
// like a state machine can make a transition from one state to another.
// This is done by returning another specific [Result] from within a task
// function.
// A coroutine can transition from one task to another until a task ends it.
//
// With the ability to transition, coro is able to provide more advanced
// control structures, like [Block], [Loop] and [Func], to ease the process of
// writing async code. The experience now feels similar to that of writing sync
// code.
//
// # Use Case #4: Rendezvous Between Producer And Consumer
//
// A [Future] is a one-shot rendezvous cell. It can be created already
// resolved ([NewFutureValue], [NewFutureError], or [NewFutureFunc], which
// calls its closure at once rather than on the first await), or pending on
// a [Task] ([NewFutureTask]) or a callback-style API ([Future.Pending]).
// At most one [FutureResult] capability exists per
// pending future; dropping that capability without fulfilling it resolves
// the future to [ErrFutureAbandoned] rather than leaving an awaiter stuck
// forever. [WhenAll] and [WhenEach] join any fixed set of futures.
//
// Mutexes ([Mutex], [MultiLock]), bounded queues ([BoundedQueue]), broadcast
// distributors ([Distributor]), the timer [Scheduler] and [Generator] all
// share the same suspend-on-an-[Event]-and-get-resumed shape as a Future,
// just specialized for their own access pattern (mutual exclusion, FIFO
// hand-off, one-to-many broadcast, deadlines, and pull-driven production,
// respectively).
//
// # Spawning Async Tasks vs. Passing Data Over Go Channels
//
// It's not recommended to have channel operations in a [Task] for
// a [Coroutine] to do, since they tend to block.
// For an [Executor], if one coroutine blocks, no other coroutines can run.
// So instead of passing data around, one would just handle data at places
// where data are available.
// Tasks are quite flexible and composable. One can even build a state
// machine across goroutine boundaries, which isn't something channels are
// qualified to do. Tasks are better building blocks than channels.
//
// One of the advantages of passing data over channels is to be able to avoid
// allocation. Unfortunately, tasks always escape to heap.
// Any variable they capture also escapes to heap. One should stay alert and
// take measures in hot spots, like repeatedly using a same task.
//
// # The Essentiality of Structured Concurrency
//
// Coro encourages non-blocking programming, which makes structured
// concurrency quite essential to this library.
// At some point, one might want to know when an [Executor] stops operating.
//
// In Go, all Go code can only be executed by goroutines.
// Tasks are just ordinary Go functions, too.
// If one keeps track of every goroutine that spawns tasks, and waits for
// them to finish, then the exact right time when an [Executor] stops operating
// can be determined too.
// Essentially, it creates a synchronization point between the spawned tasks
// and the rest of the code after the waiting.
//
// # Root/Child Coroutines
//
// Coroutines spawned by an [Executor] are root coroutines.
// Coroutines spawned by the [Coroutine.Spawn] method, in a [Task] function,
// are child coroutines.
//
// Child coroutines are Task-scoped and, therefore, cancelable.
// When a [Task] completes, all child coroutines spawned in it are canceled.
//
// Conversely, root coroutines are not cancelable.
// One must cooperatively tell a root coroutine to exit.
// Though, it's possible to just let them rot in the background. The Go runtime
// would happily garbage collect them when there are no references to them.
//
// Canceled child coroutines cannot yield.
// All yield points are treated like exit points.
// A [NonCancelable] task runs its inner task on a root coroutine of its own,
// which a cancellation does not reach. The canceled coroutine that awaits it
// still cannot yield: it stops waiting at once, and the tasks that follow the
// [NonCancelable] task in that coroutine do not run.
//
// # Panic Propagation
//
// Child coroutines propagate unrecovered panics to their parent coroutines.
// Root coroutines propagate unrecovered panics to their [Executor], causing
// the [Executor.Run] method to panic when it returns.
//
// If a coroutine spawns multiple child coroutines and one of them panics
// without recovering, the coroutine cancels other child coroutines.
// Then, after all child coroutines complete, the coroutine propagates panics
// to its parent coroutine, or its [Executor] if it's a root coroutine.
package coro
