package apiclient

import "context"

// Result is the single completion of an asynchronous call: either Value or
// Err is meaningful, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Unpack returns the result in (value, error) form.
func (r Result[T]) Unpack() (T, error) { return r.Value, r.Err }

// Go runs call on its own goroutine and delivers exactly one Result on the
// returned channel. The channel is buffered so an abandoned receiver never
// leaks the goroutine; cancel ctx to abort the request itself.
func Go[T any](ctx context.Context, call func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := call(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// Await blocks until the result arrives or ctx is done.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	select {
	case r, ok := <-ch:
		if !ok {
			var zero T
			return zero, context.Canceled
		}
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
