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

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactive/errors"
)

// HalfBody gives code running outside of any body an identity, so that it
// can send requests and receive their replies. It never serves requests.
type HalfBody struct {
	*endpoint
	released *atomic.Bool
}

var (
	_ Handle      = (*HalfBody)(nil)
	_ Addressable = (*HalfBody)(nil)
)

func newHalfBody(store *Store) *HalfBody {
	id := store.generator.Next()
	half := &HalfBody{
		endpoint: newEndpoint(id, store, store.logger.With("halfbody", id.String())),
		released: atomic.NewBool(false),
	}
	half.pool = newFuturePool(id, half.logger, half.deliver)
	return half
}

// Address returns the transport address of the store holding the half-body
func (h *HalfBody) Address() string {
	return h.store.address()
}

// ReceiveRequest always fails with errors.ErrHalfBodyCannotServe
func (h *HalfBody) ReceiveRequest(context.Context, *Request) (Status, error) {
	return StatusNonFT, gerrors.ErrHalfBodyCannotServe
}

// ReceiveReply resolves the futures of the half-body waiting for the reply
func (h *HalfBody) ReceiveReply(ctx context.Context, reply *Reply) (Status, error) {
	if err := reply.validate(); err != nil {
		return StatusNonFT, err
	}

	if h.released.Load() {
		return StatusNonFT, gerrors.ErrTerminated
	}
	return h.admitReply(ctx, reply)
}

// Release discards the half-body: its pending futures fail with errors.ErrTerminated.
// Subsequent calls are no-ops.
func (h *HalfBody) Release(ctx context.Context) {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.pool.close(gerrors.ErrTerminated)
	h.store.unregisterHalfBody(ctx, h)
}
