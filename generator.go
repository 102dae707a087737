package coro

// A Generator produces a sequence of values of type T from a producer
// [Task], one at a time, starting the producer lazily on the first
// [Generator.Next] call.
//
// The producer may await arbitrary Events between calls to the yield
// function it is given (sleep on a [Scheduler], wait on a [Future], read
// from another queue) exactly as any other Task can, because publishing
// a value goes through a capacity-1 [BoundedQueue] rather than
// suspending the producer in place.
//
// A Generator must not be shared by more than one [Executor].
type Generator[T any] struct {
	q       BoundedQueue[T]
	body    Task
	started bool
}

// NewGenerator returns a Generator whose values come from running body
// with a yield function. yield returns a [Task] that waits, if
// necessary, until the previously published value has been consumed,
// and then publishes v as the generator's next value.
//
// The producer does not start running until the first call to
// [Generator.Next]; once started, it runs on a root coroutine of its own
// and is never canceled. If the generator is abandoned before exhausting
// it, the producer stays parked at its next yield forever, a leak similar
// to the one [ConcatSeq] and [MergeSeq] warn about.
func NewGenerator[T any](body func(yield func(v T) Task) Task) *Generator[T] {
	g := &Generator[T]{q: *NewBoundedQueue[T](1)}
	g.body = body(g.q.Push).Then(Do(func() { g.q.Close(nil) }))
	return g
}

// Next returns a [Task] that starts the producer on the first call,
// awaits its next published value (or its end), stores the value and
// whether one was produced into *v and *ok, and then ends.
func (g *Generator[T]) Next(v *T, ok *bool) Task {
	return func(co *Coroutine) Result {
		if !g.started {
			g.started = true
			co.Executor().Spawn(g.body)
		}
		var err error
		return co.Transition(g.q.Pop(v, &err).Then(Do(func() {
			*ok = err == nil
		})))
	}
}

// Generators do not support fan-in over multiple producers; the
// original this package is modeled on leaves its own equivalent
// (generator_aggregator) unimplemented for the same reason: merging
// producers that each carry a [Generator.Next]-style pull protocol
// needs an explicit winner-take-all combinator, which [WhenEach]
// already provides over a fixed set of [Future] values instead.
//
// There is no blocking iterator adapter (the C++ original has one,
// advanced by a plain ++ that blocks the calling thread). That shape
// doesn't fit this package: a [Task] must never block, so pulling a
// value is always something a coroutine awaits through Next, never
// something a plain function call returns synchronously.

// A ParamGenerator is a [Generator] whose producer additionally reads a
// fresh parameter of type P on every call, mirroring the parameterized
// async_generator<T, Param> of the C++ original.
//
// A ParamGenerator must not be shared by more than one [Executor].
type ParamGenerator[P, T any] struct {
	q       BoundedQueue[T]
	param   BoundedQueue[P]
	body    Task
	started bool
}

// NewParamGenerator returns a ParamGenerator whose values come from
// running body with a yield function and a param function. param
// returns a [Task] that awaits the parameter given to the call that
// woke the producer, storing it into *p.
//
// The producer does not start running until [ParamGenerator.Start] or
// [ParamGenerator.Call] is first called.
func NewParamGenerator[P, T any](body func(yield func(v T) Task, param func(p *P) Task) Task) *ParamGenerator[P, T] {
	g := &ParamGenerator[P, T]{q: *NewBoundedQueue[T](1), param: *NewBoundedQueue[P](1)}
	param := func(p *P) Task { return g.param.Pop(p, nil) }
	g.body = body(g.q.Push, param).Then(Do(func() { g.q.Close(nil) }))
	return g
}

// Start runs the producer up to its first yield or its end, without
// supplying a parameter, storing the value and whether one was produced
// into *v and *ok. Start must only be called once, before any call to
// [ParamGenerator.Call]; subsequent calls end immediately with *ok set
// to false.
func (g *ParamGenerator[P, T]) Start(v *T, ok *bool) Task {
	return func(co *Coroutine) Result {
		if g.started {
			*ok = false
			return co.End()
		}
		g.started = true
		co.Executor().Spawn(g.body)
		var err error
		return co.Transition(g.q.Pop(v, &err).Then(Do(func() {
			*ok = err == nil
		})))
	}
}

// Call supplies p as the parameter for the producer's next step (starting
// the producer first if this is the first call), awaits the value it
// yields in response (or its end), and stores the value and whether one
// was produced into *v and *ok.
func (g *ParamGenerator[P, T]) Call(p P, v *T, ok *bool) Task {
	return func(co *Coroutine) Result {
		if !g.started {
			g.started = true
			co.Executor().Spawn(g.body)
		}
		var err error
		return co.Transition(g.param.Push(p).Then(g.q.Pop(v, &err).Then(Do(func() {
			*ok = err == nil
		}))))
	}
}
