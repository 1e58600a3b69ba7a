// Package iterbridge adapts every iterable shape the interpreter's runtime
// values can take — arrays, strings, and user objects exposing a `next`
// method — onto one pull-based Iterator contract that `for...of` and
// spread both drive identically. It knows nothing about
// internal/interp's concrete Value representation: the interpreter supplies
// small hook closures (HasNext/CallNext) rather than this package importing
// the interpreter, keeping the dependency direction the same as every other
// collaborator boundary in this codebase (internal/host, internal/errorsx).
package iterbridge

// Iterator is the synchronous pull protocol every iterable value bridges
// to, matching JavaScript's iterator result shape without materializing an
// intermediate {value, done} object per step.
type Iterator interface {
	Next() (value any, done bool, err error)
}

// Source adapts one family of host values (arrays, strings, user objects)
// into an Iterator. Bridge tries each registered Source in order and uses
// the first one that accepts the value.
type Source interface {
	Iterate(value any) (Iterator, bool)
}

// Bridge is the interpreter's single entry point for `for...of` and spread
// (`[...xs]`, `f(...args)`). Destructuring patterns do not go through it:
// internal/interp binds them from arrays and strings directly.
type Bridge struct {
	sources []Source
}

// NewBridge builds a Bridge trying sources in the given order. The
// interpreter registers SliceSource and StringSource first (cheap, no
// method dispatch) and a NextMethodSource last as the general fallback for
// user-defined iterables.
func NewBridge(sources ...Source) *Bridge {
	return &Bridge{sources: sources}
}

func (b *Bridge) Iterate(value any) (Iterator, bool) {
	for _, s := range b.sources {
		if it, ok := s.Iterate(value); ok {
			return it, true
		}
	}
	return nil, false
}

// Drain exhausts it into a slice, surfacing the first error encountered.
// Used for spread syntax, which needs every element up front rather than
// one at a time.
func Drain(it Iterator) ([]any, error) {
	var out []any
	for {
		v, done, err := it.Next()
		if err != nil {
			return out, err
		}
		if done {
			return out, nil
		}
		out = append(out, v)
	}
}

// sliceIterator walks a materialized Go slice; it backs both SliceSource
// and StringSource (the latter after splitting into code points).
type sliceIterator struct {
	items []any
	pos   int
}

func (it *sliceIterator) Next() (any, bool, error) {
	if it.pos >= len(it.items) {
		return nil, true, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, false, nil
}

// SliceSource bridges a SharpTS array, represented by the interpreter as a
// []any, directly.
type SliceSource struct{}

func (SliceSource) Iterate(value any) (Iterator, bool) {
	s, ok := value.([]any)
	if !ok {
		return nil, false
	}
	cp := make([]any, len(s))
	copy(cp, s)
	return &sliceIterator{items: cp}, true
}

// StringSource bridges a string to iteration over Unicode code points, one
// rune (re-encoded as a one-rune string) per step — JavaScript's string
// iterator yields code points, not UTF-16 code units or bytes.
type StringSource struct{}

func (StringSource) Iterate(value any) (Iterator, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	runes := []rune(s)
	items := make([]any, len(runes))
	for i, r := range runes {
		items[i] = string(r)
	}
	return &sliceIterator{items: items}, true
}

// NextMethodSource bridges a user-defined iterable: any value exposing a
// callable `next` member that itself returns an object shaped like
// {value, done}. HasNext/CallNext are supplied by the interpreter's own
// member-lookup and call-dispatch machinery so this package stays free of
// any dependency on the interpreter's Value type.
type NextMethodSource struct {
	HasNext  func(value any) bool
	CallNext func(value any) (result any, done bool, err error)
}

func (s NextMethodSource) Iterate(value any) (Iterator, bool) {
	if s.HasNext == nil || s.CallNext == nil || !s.HasNext(value) {
		return nil, false
	}
	return &methodIterator{target: value, call: s.CallNext}, true
}

type methodIterator struct {
	target any
	call   func(value any) (any, bool, error)
	done   bool
}

func (it *methodIterator) Next() (any, bool, error) {
	if it.done {
		return nil, true, nil
	}
	v, done, err := it.call(it.target)
	if done || err != nil {
		it.done = true
	}
	return v, done, err
}

// AsyncIterator is the `for await...of` counterpart: NextAsync returns a
// promise handle for the caller to await rather than a value computed
// synchronously.
type AsyncIterator interface {
	NextAsync() (promise any)
}

// AsyncSource bridges a user object exposing an async `next` — one whose
// return value is itself a Promise resolving to {value, done} — the
// `Symbol.asyncIterator` counterpart of NextMethodSource.
type AsyncSource struct {
	HasNextAsync  func(value any) bool
	CallNextAsync func(value any) (promise any)
}

func (s AsyncSource) IterateAsync(value any) (AsyncIterator, bool) {
	if s.HasNextAsync == nil || s.CallNextAsync == nil || !s.HasNextAsync(value) {
		return nil, false
	}
	return &asyncMethodIterator{target: value, call: s.CallNextAsync}, true
}

type asyncMethodIterator struct {
	target any
	call   func(value any) any
}

func (it *asyncMethodIterator) NextAsync() any { return it.call(it.target) }

// AsyncBridge mirrors Bridge for `for await...of`.
type AsyncBridge struct {
	sources []AsyncSource
}

func NewAsyncBridge(sources ...AsyncSource) *AsyncBridge {
	return &AsyncBridge{sources: sources}
}

func (b *AsyncBridge) IterateAsync(value any) (AsyncIterator, bool) {
	for _, s := range b.sources {
		if it, ok := s.IterateAsync(value); ok {
			return it, true
		}
	}
	return nil, false
}
