package transport

import (
	"context"
	"sync"
)

// Outcome is a settled send: exactly one of Result and Err is set.
type Outcome struct {
	Result *SendResult
	Err    error
}

// Callback receives the outcome of an asynchronous send.
type Callback func(*SendResult, error)

// Future is the awaitable side of an asynchronous send.
type Future struct {
	done    chan struct{}
	once    sync.Once
	outcome Outcome
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) settle(o Outcome) {
	f.once.Do(func() {
		f.outcome = o
		close(f.done)
	})
}

// Done is closed once the send has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the send settles or ctx is done. Giving up on ctx does
// not cancel the send itself.
func (f *Future) Wait(ctx context.Context) (*SendResult, error) {
	select {
	case <-f.done:
		return f.outcome.Result, f.outcome.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run settles the future with fn's outcome and then hands it to cb.
func run(f *Future, cb Callback, fn func() (*SendResult, error)) {
	res, err := fn()
	if err != nil {
		res = nil
	}
	f.settle(Outcome{Result: res, Err: err})
	if cb != nil {
		cb(res, err)
	}
}
