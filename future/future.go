// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package future

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactive/errors"
)

// Future is a single-assignment placeholder for the reply of an asynchronous
// request. It is resolved exactly once, either with a value or with a failure.
// Later attempts to resolve it are no-ops.
//
// A Future is bound to an ID when the request it stands for is sent. The
// owning body registers it in its future pool under that ID so that the
// matching reply can find it.
//
// Example usage:
//
//	fut, err := caller.Send(ctx, to, body.NewMethodCall("add", 2, 3))
//	if err != nil {
//	    return err
//	}
//
//	value, err := fut.Await(ctx)
type Future struct {
	mu      sync.Mutex
	id      ID
	bound   bool
	timeout time.Duration

	completeOnce sync.Once
	resolved     *atomic.Bool
	done         chan struct{}
	result       *Result
}

// New creates an unresolved Future without timeout.
func New() *Future {
	return NewWithTimeout(0)
}

// NewWithTimeout creates an unresolved Future. When timeout is positive,
// Await fails with errors.ErrFutureTimeout once it has waited that long.
func NewWithTimeout(timeout time.Duration) *Future {
	return &Future{
		timeout:  timeout,
		resolved: atomic.NewBool(false),
		done:     make(chan struct{}),
	}
}

// NewResolved returns a Future already resolved with the given value
func NewResolved(value any) *Future {
	f := New()
	f.Resolve(value)
	return f
}

// Bind tags the future with its identifier.
// A future can be bound only once.
func (x *Future) Bind(id ID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.bound {
		return gerrors.ErrFutureAlreadyBound
	}
	x.id = id
	x.bound = true
	return nil
}

// ID returns the identifier of the future and whether it is bound
func (x *Future) ID() (ID, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.id, x.bound
}

// Timeout returns the timeout of the future
func (x *Future) Timeout() time.Duration {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.timeout
}

// SetTimeout sets the timeout used by Await when none was given at creation
func (x *Future) SetTimeout(timeout time.Duration) {
	x.mu.Lock()
	if x.timeout == 0 {
		x.timeout = timeout
	}
	x.mu.Unlock()
}

// Resolve completes the future with a value.
// It returns false when the future was already resolved.
func (x *Future) Resolve(value any) bool {
	return x.complete(value, nil)
}

// Fail completes the future with a failure.
// It returns false when the future was already resolved.
func (x *Future) Fail(err error) bool {
	if err == nil {
		err = errors.New("future failed with a nil error")
	}
	return x.complete(nil, err)
}

func (x *Future) complete(value any, err error) bool {
	completed := false
	x.completeOnce.Do(func() {
		x.result = &Result{success: value, failure: err}
		x.resolved.Store(true)
		close(x.done)
		completed = true
	})
	return completed
}

// Done returns a channel closed once the future is resolved
func (x *Future) Done() <-chan struct{} {
	return x.done
}

// IsResolved reports whether the future holds a value or a failure
func (x *Future) IsResolved() bool {
	return x.resolved.Load()
}

// Result returns the outcome of the future without blocking.
// It returns nil while the future is unresolved.
func (x *Future) Result() *Result {
	if !x.resolved.Load() {
		return nil
	}
	<-x.done
	return x.result
}

// Await blocks until the future is resolved, its timeout elapses or the
// context is canceled, and returns either the value or the failure.
func (x *Future) Await(ctx context.Context) (any, error) {
	if x.resolved.Load() {
		return x.result.success, x.result.failure
	}

	var timer <-chan time.Time
	if timeout := x.Timeout(); timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case <-x.done:
		return x.result.success, x.result.failure
	case <-timer:
		return nil, gerrors.ErrFutureTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitAs waits for the future and converts its value to T.
// Numeric values are converted between kinds since values decoded off the
// wire come back as the widest integer or float type.
func AwaitAs[T any](ctx context.Context, f *Future) (T, error) {
	var zero T
	value, err := f.Await(ctx)
	if err != nil {
		return zero, err
	}
	return As[T](value)
}

// As converts a resolved value to T
func As[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}

	target := reflect.TypeOf((*T)(nil)).Elem()
	source := reflect.ValueOf(value)
	if isNumeric(source.Kind()) && isNumeric(target.Kind()) && source.CanConvert(target) {
		return source.Convert(target).Interface().(T), nil
	}
	return zero, fmt.Errorf("unexpected result type %T, expected %s", value, target)
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
