// Package host defines the collaborator contracts the core hands control
// to at its boundary: the built-in module registry, the microtask/timer
// scheduler driving the single-threaded cooperative concurrency model, the
// error reporter sink, and the host-iterator adapter for foreign sequences.
// internal/interp depends on these interfaces, never on a concrete
// implementation, so an embedder (the CLI in cmd/sharpts, or any other
// driver) supplies its own.
package host

import (
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/iterbridge"
)

// BuiltinModuleRegistry answers whether a bare specifier names a
// host-provided module and supplies its exports without the module graph
// ever reading a file for it.
type BuiltinModuleRegistry interface {
	IsBuiltin(name string) bool
	LoadBuiltin(name string) (exports map[string]any, err error)
}

// TimerHandle identifies a pending timer registered with a TaskScheduler,
// opaque to the interpreter.
type TimerHandle uint64

// TaskScheduler is the single microtask/timer queue the whole program's
// async machinery funnels through — `Promise.resolve().then(f)`,
// `setTimeout`, and `process.nextTick`-equivalent scheduling all call
// through this one contract, matching spec.md §5's single task driver.
type TaskScheduler interface {
	EnqueueMicrotask(fn func())
	SetTimer(fn func(), delayMs int) TimerHandle
	ClearTimer(h TimerHandle)
	// RunUntilIdle drains the microtask queue and fires due timers in
	// deterministic order until both are empty; `interpret`'s blocking
	// contract (spec.md §6) calls this once after the top-level module body
	// returns.
	RunUntilIdle()
}

// ErrorReporter is the sink type-check errors, runtime errors, and
// module-resolution errors are handed to, each carrying its own source
// location per spec.md §7's propagation policy.
type ErrorReporter interface {
	Report(d errorsx.Diagnostic)
}

// IteratorAdapter wraps a host-native sequence (anything the embedding Go
// program hands into the interpreter as an external value) as an
// iterbridge.Iterator, so `for...of` and spread treat it identically to a
// SharpTS array.
type IteratorAdapter interface {
	WrapHostSequence(seq any) (iterbridge.Iterator, bool)
}

// Collaborators bundles every contract the interpreter needs from its
// embedder. A nil field is valid wherever the corresponding feature is
// unused by the program being run (e.g. Metrics is optional).
type Collaborators struct {
	Modules  BuiltinModuleRegistry
	Tasks    TaskScheduler
	Errors   ErrorReporter
	Iterator IteratorAdapter
	Metrics  *Metrics
}
