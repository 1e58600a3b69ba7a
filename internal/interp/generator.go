package interp

// Generator execution uses a goroutine per generator instance paired with
// two unbuffered channels — a well-worn Go idiom for coroutines (see Rob
// Pike's "Go Concurrency Patterns" pipeline/generator talks): the body runs
// on its own goroutine and blocks on resumeCh at every `yield`, while the
// driving goroutine blocks on yieldCh waiting for the next value. Nothing
// else in this interpreter needs real concurrency, so this is the only
// place a goroutine is spawned.
//
// Async functions, by contrast, run to completion on the caller's own
// goroutine: `await` on an already-settled Promise continues immediately,
// and `await` on a pending one drains the host.TaskScheduler until it
// settles. This interpreter has no true concurrent execution, so an async
// function never actually needs to suspend its Go call stack — only
// generators do, since a generator's caller controls resumption one step
// at a time rather than running it to completion.

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeThrow
	resumeReturn
)

type resumeMsg struct {
	kind  resumeKind
	value any
}

type yieldMsg struct {
	value any
	done  bool
	err   error
}

// coroutine backs one generator (or async generator) instance.
type coroutine struct {
	yieldCh  chan yieldMsg
	resumeCh chan resumeMsg
	started  bool
	done     bool
	run      func(co *coroutine)
}

func newCoroutine(run func(co *coroutine)) *coroutine {
	return &coroutine{
		yieldCh:  make(chan yieldMsg),
		resumeCh: make(chan resumeMsg),
		run:      run,
	}
}

// Next resumes the coroutine with v as the result of the `yield` expression
// it is paused on (ignored on the very first call, which instead starts the
// body), and blocks until the body yields again or returns.
func (co *coroutine) Next(v any) (any, bool, error) {
	if co.done {
		return UndefinedValue, true, nil
	}
	if !co.started {
		co.started = true
		go co.run(co)
	} else {
		co.resumeCh <- resumeMsg{kind: resumeNext, value: v}
	}
	msg := <-co.yieldCh
	if msg.done {
		co.done = true
	}
	return msg.value, msg.done, msg.err
}

// Throw resumes the coroutine by raising v as an exception at its current
// suspension point, as if `yield` itself had thrown.
func (co *coroutine) Throw(v any) (any, bool, error) {
	if co.done || !co.started {
		co.done = true
		return nil, true, &Exception{Value: v}
	}
	co.resumeCh <- resumeMsg{kind: resumeThrow, value: v}
	msg := <-co.yieldCh
	if msg.done {
		co.done = true
	}
	return msg.value, msg.done, msg.err
}

// Return forces the coroutine to unwind as if `return v` had been executed
// at its current suspension point, running any enclosing `finally` blocks.
func (co *coroutine) Return(v any) (any, bool, error) {
	if co.done || !co.started {
		co.done = true
		return v, true, nil
	}
	co.resumeCh <- resumeMsg{kind: resumeReturn, value: v}
	msg := <-co.yieldCh
	co.done = true
	return msg.value, true, msg.err
}

// GeneratorInstance is the runtime value returned by calling a generator or
// async-generator function: an object exposing next/return/throw, and
// itself iterable so `for...of` and spread work on it directly.
type GeneratorInstance struct {
	co *coroutine
}

func (g *GeneratorInstance) Next(v any) (any, bool, error)   { return g.co.Next(v) }
func (g *GeneratorInstance) Throw(v any) (any, bool, error)  { return g.co.Throw(v) }
func (g *GeneratorInstance) Return(v any) (any, bool, error) { return g.co.Return(v) }

// resultObject builds the {value, done} shape JS generator methods return.
func resultObject(value any, done bool) *Object {
	o := NewObject()
	o.Set("value", value)
	o.Set("done", done)
	return o
}
