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

package security

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/log"
)

var testKey = bytes.Repeat([]byte{7}, 32)

type adder struct{}

func (adder) Invoke(_ context.Context, call *body.MethodCall) (any, error) {
	a, err := future.As[int](call.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := future.As[int](call.Args[1])
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func newSealer(t *testing.T) *Sealer {
	t.Helper()
	sealer := NewSealer(WithDefaultSession("default"), WithLogger(log.DiscardLogger))
	require.NoError(t, sealer.AddSession("default", testKey))
	return sealer
}

func TestSealer(t *testing.T) {
	generator := identity.NewGenerator("security")

	t.Run("With a sealed request", func(t *testing.T) {
		ctx := context.Background()
		sealer := newSealer(t)
		request := &body.Request{
			Call:     body.NewMethodCall("add", 2, "three"),
			Sender:   generator.Next(),
			Sequence: 1,
		}

		require.NoError(t, sealer.SealRequest(ctx, request))
		assert.True(t, request.Sealed)
		assert.Nil(t, request.Call)
		assert.Equal(t, "default", request.SessionID)
		assert.NotEmpty(t, request.Ciphered)

		require.NoError(t, sealer.OpenRequest(ctx, request))
		assert.False(t, request.Sealed)
		require.NotNil(t, request.Call)
		assert.Equal(t, "add", request.Call.Name)
		assert.EqualValues(t, 2, request.Call.Args[0])
		assert.Equal(t, "three", request.Call.Args[1])
	})
	t.Run("With a sealed reply", func(t *testing.T) {
		ctx := context.Background()
		sealer := newSealer(t)
		reply := &body.Reply{
			FutureID: future.ID{Creator: generator.Next(), Sequence: 3},
			Failure:  gerrors.EncodeFailure("add", gerrors.ErrTerminated),
		}

		require.NoError(t, sealer.SealReply(ctx, reply))
		assert.True(t, reply.Sealed)
		assert.Nil(t, reply.Failure)

		require.NoError(t, sealer.OpenReply(ctx, reply))
		require.ErrorIs(t, reply.Err(), gerrors.ErrTerminated)
	})
	t.Run("With a tampered request", func(t *testing.T) {
		ctx := context.Background()
		sealer := newSealer(t)
		request := &body.Request{Call: body.NewMethodCall("get"), Sender: generator.Next(), Sequence: 1}
		require.NoError(t, sealer.SealRequest(ctx, request))

		request.Sequence = 2
		require.ErrorIs(t, sealer.OpenRequest(ctx, request), ErrTampered)

		request.Sequence = 1
		request.Ciphered[len(request.Ciphered)-1] ^= 0xff
		require.ErrorIs(t, sealer.OpenRequest(ctx, request), ErrTampered)

		request.Ciphered = []byte{1}
		require.ErrorIs(t, sealer.OpenRequest(ctx, request), ErrTampered)
	})
	t.Run("Without a session", func(t *testing.T) {
		ctx := context.Background()
		sealer := NewSealer()
		request := &body.Request{Call: body.NewMethodCall("get"), Sender: generator.Next(), Sequence: 1}
		require.ErrorIs(t, sealer.SealRequest(ctx, request), gerrors.ErrSecurityNotAvailable)
		assert.False(t, request.Sealed)

		request.Sealed = true
		request.SessionID = "missing"
		require.ErrorIs(t, sealer.OpenRequest(ctx, request), ErrUnknownSession)
	})
	t.Run("With an invalid key", func(t *testing.T) {
		sealer := NewSealer()
		require.ErrorIs(t, sealer.AddSession("short", []byte("short")), ErrInvalidKey)
	})
	t.Run("With a removed session", func(t *testing.T) {
		ctx := context.Background()
		sealer := newSealer(t)
		sealer.RemoveSession("default")
		reply := &body.Reply{FutureID: future.ID{Creator: generator.Next(), Sequence: 1}, Result: 1}
		require.ErrorIs(t, sealer.SealReply(ctx, reply), gerrors.ErrSecurityNotAvailable)
	})
	t.Run("With bodies exchanging sealed messages", func(t *testing.T) {
		ctx := context.Background()
		store, err := body.NewStore(body.WithStoreLogger(log.DiscardLogger), body.WithSecurity(newSealer(t)))
		require.NoError(t, err)
		defer func() {
			require.NoError(t, store.Shutdown(ctx))
		}()

		b, err := store.Spawn(ctx, adder{})
		require.NoError(t, err)

		caller, err := store.NewHalfBody()
		require.NoError(t, err)
		defer caller.Release(ctx)

		fut, err := caller.Send(ctx, b, body.NewMethodCall("add", 2, 3))
		require.NoError(t, err)
		result, err := future.AwaitAs[int](ctx, fut)
		require.NoError(t, err)
		assert.Equal(t, 5, result)
	})
}
