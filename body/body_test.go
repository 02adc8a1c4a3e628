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

package body

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/log"
)

func TestBody(t *testing.T) {
	t.Run("With a two-way request", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target, WithName("calculator"))
		caller := newCaller(t, store)

		result, err := call(t, caller, b, "add", 2, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, result)
		assert.Zero(t, b.QueueLength())
		assert.Equal(t, "calculator", b.Name())
		assert.True(t, b.IsActive())
		assert.EqualValues(t, 1, target.activated.Load())

		require.NoError(t, b.Terminate(ctx))
		<-b.Done()
		assert.EqualValues(t, 1, target.deactivated.Load())
	})
	t.Run("With requests served in arrival order", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		const count = 100
		for i := 1; i <= count; i++ {
			require.NoError(t, caller.SendOneWay(ctx, b, NewMethodCall("set", i)))
		}

		result, err := call(t, caller, b, "get")
		require.NoError(t, err)
		assert.Equal(t, count, result)

		expected := make([]int, count)
		for i := range expected {
			expected[i] = i + 1
		}
		assert.Equal(t, expected, target.servedValues())
	})
	t.Run("With concurrent senders served one at a time and exactly once", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)

		const senders = 20
		const perSender = 10
		var wg sync.WaitGroup
		for i := 0; i < senders; i++ {
			wg.Add(1)
			go func(sender int) {
				defer wg.Done()
				caller, err := store.NewHalfBody()
				if !assert.NoError(t, err) {
					return
				}
				defer caller.Release(ctx)

				futures := make([]*future.Future, 0, perSender)
				for j := 0; j < perSender; j++ {
					fut, err := caller.Send(ctx, b, NewMethodCall("record", sender*perSender+j))
					if !assert.NoError(t, err) {
						return
					}
					futures = append(futures, fut)
				}

				previous := -1
				for _, fut := range futures {
					value, err := future.AwaitAs[int](ctx, fut)
					assert.NoError(t, err)
					assert.Greater(t, value, previous)
					previous = value
				}
			}(i)
		}
		wg.Wait()

		served := target.servedValues()
		assert.Len(t, served, senders*perSender)
		assert.Zero(t, target.overlaps.Load())

		seen := make(map[int]int, len(served))
		for _, v := range served {
			seen[v]++
		}
		for v, n := range seen {
			assert.Equalf(t, 1, n, "value %d served %d times", v, n)
		}
	})
	t.Run("With a failing method", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		_, err := call(t, caller, b, "fail")
		require.Error(t, err)
		var serviceErr *gerrors.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "fail", serviceErr.Method())
		assert.Equal(t, "boom", serviceErr.Message())
		assert.True(t, b.IsActive())
	})
	t.Run("With a panicking method", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		_, err := call(t, caller, b, "panic")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kaboom")

		result, err := call(t, caller, b, "add", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, result)
	})
	t.Run("With an unstarted body", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b, err := store.NewBody(newCounter())
		require.NoError(t, err)
		assert.Equal(t, Unstarted, b.State())
		caller := newCaller(t, store)

		_, err = caller.Send(ctx, b, NewMethodCall("get"))
		require.ErrorIs(t, err, gerrors.ErrNotActive)
		assert.Zero(t, caller.pool.pendingCount())

		require.NoError(t, b.Start(ctx))
		require.ErrorIs(t, b.Start(ctx), gerrors.ErrAlreadyActive)
	})
	t.Run("With an undefined target", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.NewBody(nil)
		require.ErrorIs(t, err, gerrors.ErrUndefinedTarget)
	})
	t.Run("With a terminated body never started", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b, err := store.NewBody(newCounter())
		require.NoError(t, err)
		require.NoError(t, b.Terminate(ctx))
		<-b.Done()
		require.ErrorIs(t, b.Start(ctx), gerrors.ErrTerminated)
	})
	t.Run("With an unknown method", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, plain{})
		caller := newCaller(t, store)

		result, err := call(t, caller, b, "anything")
		require.NoError(t, err)
		assert.Equal(t, "anything", result)
	})
}

func TestTermination(t *testing.T) {
	t.Run("With Terminate called twice", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		require.NoError(t, b.Terminate(ctx))
		require.NoError(t, b.Terminate(ctx))
		<-b.Done()
		assert.Equal(t, Terminated, b.State())
		assert.EqualValues(t, 1, target.deactivated.Load())

		_, err := caller.Send(ctx, b, NewMethodCall("get"))
		require.ErrorIs(t, err, gerrors.ErrTerminated)

		_, found := store.Body(b.ID())
		assert.False(t, found)
	})
	t.Run("With queued requests failing on termination", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		blocking, err := caller.Send(ctx, b, NewMethodCall("block"))
		require.NoError(t, err)
		<-target.blocked

		queued := make([]*future.Future, 0, 3)
		for i := 0; i < 3; i++ {
			fut, err := caller.Send(ctx, b, NewMethodCall("record", i))
			require.NoError(t, err)
			queued = append(queued, fut)
		}
		require.Eventually(t, func() bool { return b.QueueLength() == 3 }, awaitTimeout, time.Millisecond)

		require.NoError(t, b.Terminate(ctx))
		for _, fut := range queued {
			_, err := fut.Await(ctx)
			require.ErrorIs(t, err, gerrors.ErrTerminated)
		}

		close(target.release)
		result, err := blocking.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "unblocked", result)
		<-b.Done()
		assert.Empty(t, target.servedValues())
	})
	t.Run("With the termination request", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		require.NoError(t, caller.SendOneWay(ctx, b, NewMethodCall("record", 1)))
		fut, err := caller.Send(ctx, b, NewMethodCall(TerminateMethod))
		require.NoError(t, err)

		_, err = fut.Await(ctx)
		require.NoError(t, err)
		<-b.Done()
		assert.Equal(t, Terminated, b.State())
		assert.Equal(t, []int{1}, target.servedValues())
	})
	t.Run("With a body terminating itself", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		_, err := call(t, caller, b, "terminate")
		require.NoError(t, err)
		<-b.Done()
		assert.Equal(t, Terminated, b.State())
	})
	t.Run("With a released caller", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller, err := store.NewHalfBody()
		require.NoError(t, err)

		fut, err := caller.Send(ctx, b, NewMethodCall("block"))
		require.NoError(t, err)
		<-target.blocked

		caller.Release(ctx)
		_, err = fut.Await(ctx)
		require.ErrorIs(t, err, gerrors.ErrTerminated)
		close(target.release)
	})
}

func TestBarrier(t *testing.T) {
	t.Run("With a closed barrier requests are admitted in arrival order", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		b.BlockCommunication()

		var wg sync.WaitGroup
		for i := 1; i <= 3; i++ {
			wg.Add(1)
			go func(value int) {
				defer wg.Done()
				assert.NoError(t, caller.SendOneWay(ctx, b, NewMethodCall("record", value)))
			}(i)
			waitForWaiters(t, b, uint64(i))
		}

		assert.Zero(t, b.QueueLength())
		assert.Empty(t, target.servedValues())

		b.AcceptCommunication()
		wg.Wait()

		result, err := call(t, caller, b, "get")
		require.NoError(t, err)
		assert.Equal(t, 0, result)
		assert.Equal(t, []int{1, 2, 3}, target.servedValues())
	})
	t.Run("With a waiting sender giving up", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		b.BlockCommunication()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := caller.Send(ctx, b, NewMethodCall("get"))
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, caller.pool.pendingCount())

		b.AcceptCommunication()
		result, err := call(t, caller, b, "add", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, result)
	})
	t.Run("With Enter and Exit", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())

		require.ErrorIs(t, b.Exit(), gerrors.ErrBarrierMisuse)
		require.NoError(t, b.Enter(ctx))
		assert.Equal(t, 1, b.barrier.count())
		require.NoError(t, b.Exit())
		require.ErrorIs(t, b.Exit(), gerrors.ErrBarrierMisuse)
	})
	t.Run("With a terminated body releasing waiters", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		b.BlockCommunication()
		errc := make(chan error, 1)
		go func() {
			errc <- caller.SendOneWay(ctx, b, NewMethodCall("record", 1))
		}()
		waitForWaiters(t, b, 1)

		require.NoError(t, b.Terminate(ctx))
		require.ErrorIs(t, <-errc, gerrors.ErrTerminated)
		require.ErrorIs(t, b.Enter(ctx), gerrors.ErrTerminated)
	})
}

func TestImmediateService(t *testing.T) {
	t.Run("With an immediate call while the body is busy", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		blocking, err := caller.Send(ctx, b, NewMethodCall("block"))
		require.NoError(t, err)
		<-target.blocked

		fut, err := caller.Send(ctx, b, NewImmediateCall("status"))
		require.NoError(t, err)
		result, err := fut.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, true, result)

		close(target.release)
		_, err = blocking.Await(ctx)
		require.NoError(t, err)
	})
	t.Run("With a method marked immediate", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target, WithImmediateMethods("status"))
		caller := newCaller(t, store)

		assert.True(t, b.IsImmediateService("status"))
		status, err := b.ReceiveRequest(ctx, &Request{
			Call:        NewMethodCall("status"),
			Sender:      caller.ID(),
			Destination: b.ID(),
			Sequence:    1,
			OneWay:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusImmediateService, status)

		b.SetImmediateService("get")
		b.RemoveImmediateService("status")
		assert.False(t, b.IsImmediateService("status"))
		assert.True(t, b.IsImmediateService("get"))
	})
	t.Run("With a target unable to serve immediately", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, plain{})
		caller := newCaller(t, store)

		status, err := b.ReceiveRequest(ctx, &Request{
			Call:        NewImmediateCall("status"),
			Sender:      caller.ID(),
			Destination: b.ID(),
			Sequence:    1,
			OneWay:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusNonFT, status)
	})
}

func TestReplies(t *testing.T) {
	t.Run("With an orphan reply", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())

		status, err := b.ReceiveReply(ctx, &Reply{
			FutureID:    future.ID{Creator: b.ID(), Sequence: 42},
			Destination: b.ID(),
			Result:      1,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusOrphanReply, status)
	})
	t.Run("With an invalid reply", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())

		_, err := b.ReceiveReply(ctx, &Reply{})
		require.ErrorIs(t, err, gerrors.ErrInvalidReply)
		_, err = b.ReceiveRequest(ctx, &Request{})
		require.ErrorIs(t, err, gerrors.ErrInvalidRequest)
	})
	t.Run("With a half-body receiving a request", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		caller := newCaller(t, store)
		other := newCaller(t, store)

		_, err := other.Send(ctx, caller, NewMethodCall("get"))
		require.ErrorIs(t, err, gerrors.ErrHalfBodyCannotServe)
	})
	t.Run("With a reply that cannot reach its sender", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		target := newCounter()
		b := spawn(t, store, target)
		caller, err := store.NewHalfBody()
		require.NoError(t, err)

		require.NoError(t, caller.SendOneWay(ctx, b, NewMethodCall("block")))
		<-target.blocked
		_, err = caller.Send(ctx, b, NewMethodCall("get"))
		require.NoError(t, err)

		caller.Release(ctx)
		close(target.release)

		result, err := call(t, newCaller(t, store), b, "add", 4, 4)
		require.NoError(t, err)
		assert.Equal(t, 8, result)
	})
}

func TestFutures(t *testing.T) {
	t.Run("With a future returned by a method", func(t *testing.T) {
		store := newTestStore(t)
		first := spawn(t, store, newCounter())
		second := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		result, err := call(t, caller, first, "relay", second, 20, 22)
		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})
	t.Run("With an unresolved future passed as argument", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		argument := future.New()
		fut, err := caller.Send(ctx, b, NewMethodCall("await", argument))
		require.NoError(t, err)

		_, bound := argument.ID()
		assert.True(t, bound)
		require.Eventually(t, func() bool { return caller.pool.continuationCount() == 1 }, awaitTimeout, time.Millisecond)

		argument.Resolve("resolved later")
		result, err := fut.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "resolved later", result)
	})
	t.Run("With a failed future passed as argument", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		argument := future.New()
		fut, err := caller.Send(ctx, b, NewMethodCall("await", argument))
		require.NoError(t, err)

		argument.Fail(errors.New("not available"))
		_, err = fut.Await(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})
	t.Run("With a resolved future passed as argument", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		result, err := call(t, caller, b, "await", future.NewResolved(7))
		require.NoError(t, err)
		assert.Equal(t, 7, result)
		assert.Zero(t, caller.pool.continuationCount())
	})
	t.Run("With a future timeout", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t, WithFutureTimeout(50*time.Millisecond))
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		fut, err := caller.Send(ctx, b, NewMethodCall("block"))
		require.NoError(t, err)
		<-target.blocked

		_, err = fut.Await(ctx)
		require.ErrorIs(t, err, gerrors.ErrFutureTimeout)
		close(target.release)
	})
}

func TestContext(t *testing.T) {
	t.Run("With a half-body context", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())

		ctx, current, release := store.WithContext(context.Background())
		defer release()
		assert.True(t, current.IsHalfBody())
		assert.Nil(t, current.Body())
		assert.Nil(t, current.Request())
		assert.Same(t, store, current.Store())

		nested, same, noop := store.WithContext(ctx)
		noop()
		assert.Same(t, current, same)
		assert.Equal(t, ctx, nested)

		fut, err := current.Send(ctx, b, NewMethodCall("whoami"))
		require.NoError(t, err)
		result, err := fut.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, b.ID(), result)

		_, found := store.Lookup(current.ID())
		assert.True(t, found)
	})
	t.Run("With a released half-body context", func(t *testing.T) {
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		ctx, current, release := store.WithContext(context.Background())
		release()
		_, found := store.Lookup(current.ID())
		assert.False(t, found)
		_, ok := ContextFrom(ctx)
		assert.True(t, ok)

		result, err := call(t, caller, b, "status")
		require.Error(t, err)
		assert.Nil(t, result)

		_, ok = ContextFrom(context.Background())
		assert.False(t, ok)
	})
}

func TestHooks(t *testing.T) {
	t.Run("With a fault tolerance hook ignoring requests", func(t *testing.T) {
		ctx := context.Background()
		hook := newVetoHook("record")
		store := newTestStore(t, WithFaultTolerance(hook))
		target := newCounter()
		b := spawn(t, store, target)
		caller := newCaller(t, store)

		require.NoError(t, caller.SendOneWay(ctx, b, NewMethodCall("record", 1)))
		result, err := call(t, caller, b, "add", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, result)

		assert.Empty(t, target.servedValues())
		assert.EqualValues(t, 2, hook.received.Load())
		assert.EqualValues(t, 1, hook.before.Load())
		assert.EqualValues(t, 1, hook.after.Load())
		assert.EqualValues(t, 1, hook.replies.Load())
		assert.Zero(t, hook.dropped.Load())
	})
	t.Run("With a reference tracker", func(t *testing.T) {
		tracker := newRecordingTracker()
		store := newTestStore(t, WithReferenceTracker(tracker))
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		_, err := call(t, caller, b, "await", b.ID())
		require.NoError(t, err)

		observed := tracker.observed(b.ID())
		assert.Contains(t, observed, caller.ID())
		assert.Contains(t, observed, b.ID())
		assert.Contains(t, tracker.observed(caller.ID()), b.ID())
	})
	t.Run("With a sealed request and no security hook", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		b := spawn(t, store, newCounter())
		caller := newCaller(t, store)

		_, err := b.ReceiveRequest(ctx, &Request{
			Sender:      caller.ID(),
			Destination: b.ID(),
			Sequence:    1,
			Sealed:      true,
			Ciphered:    []byte("secret"),
		})
		require.ErrorIs(t, err, gerrors.ErrSecurityNotAvailable)
	})
}

func TestStore(t *testing.T) {
	t.Run("With Shutdown", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(WithRuntimeName("runtime"), WithStoreLogger(log.DiscardLogger))
		require.NoError(t, err)
		assert.Equal(t, "runtime", store.RuntimeName())

		targets := make([]*counter, 0, 5)
		for i := 0; i < 5; i++ {
			target := newCounter()
			targets = append(targets, target)
			_, err := store.Spawn(ctx, target, WithName(fmt.Sprintf("body-%d", i)))
			require.NoError(t, err)
		}
		assert.Len(t, store.Bodies(), 5)

		require.NoError(t, store.Shutdown(ctx))
		require.NoError(t, store.Shutdown(ctx))
		assert.Empty(t, store.Bodies())
		for _, target := range targets {
			assert.EqualValues(t, 1, target.deactivated.Load())
		}

		_, err = store.NewBody(newCounter())
		require.ErrorIs(t, err, gerrors.ErrTerminated)
		_, err = store.NewHalfBody()
		require.ErrorIs(t, err, gerrors.ErrTerminated)
	})
	t.Run("With an unknown body", func(t *testing.T) {
		ctx := context.Background()
		store := newTestStore(t)
		caller := newCaller(t, store)

		_, err := store.Resolve(ctx, store.generator.Next(), "")
		require.ErrorIs(t, err, gerrors.ErrBodyNotFound)

		handle, err := store.Resolve(ctx, caller.ID(), "")
		require.NoError(t, err)
		assert.Equal(t, caller.ID(), handle.ID())
	})
}
