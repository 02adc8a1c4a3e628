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

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/log"
)

// endpoint is the part of a body able to send requests and receive replies.
// Bodies and half-bodies share it.
type endpoint struct {
	id       identity.ID
	store    *Store
	logger   log.Logger
	sequence *atomic.Uint64
	clock    *clock
	pool     *futurePool
}

func newEndpoint(id identity.ID, store *Store, logger log.Logger) *endpoint {
	return &endpoint{
		id:       id,
		store:    store,
		logger:   logger,
		sequence: atomic.NewUint64(0),
		clock:    newClock(),
	}
}

// ID returns the identifier of the body
func (e *endpoint) ID() identity.ID {
	return e.id
}

// Send sends a two-way request to the given body and returns the future of
// its reply. The future is registered before the request leaves, so a reply
// can never miss it. Failures to hand the request over are returned directly.
func (e *endpoint) Send(ctx context.Context, to Handle, call *MethodCall) (*future.Future, error) {
	return e.send(ctx, to, call, false)
}

// SendOneWay sends a request for which no reply is expected
func (e *endpoint) SendOneWay(ctx context.Context, to Handle, call *MethodCall) error {
	_, err := e.send(ctx, to, call, true)
	return err
}

func (e *endpoint) send(ctx context.Context, to Handle, call *MethodCall, oneWay bool) (*future.Future, error) {
	if to == nil || call == nil {
		return nil, gerrors.ErrInvalidRequest
	}

	if e.pool == nil {
		return nil, gerrors.ErrNotActive
	}

	sequence := e.sequence.Inc()
	target := destinationOf(to)
	args := make([]any, len(call.Args))
	for i, arg := range call.Args {
		args[i] = e.outgoing(arg, target)
	}

	request := &Request{
		Call:          &MethodCall{Name: call.Name, Args: args, Immediate: call.Immediate},
		Sender:        e.id,
		SenderAddress: e.store.address(),
		Destination:   to.ID(),
		Sequence:      sequence,
		OneWay:        oneWay,
		Timestamp:     e.clock.tick(),
	}

	var fut *future.Future
	if !oneWay {
		fut = future.NewWithTimeout(e.store.futureTimeout)
		_ = fut.Bind(request.FutureID())
		if err := e.pool.register(fut); err != nil {
			return nil, err
		}
	}

	if err := e.store.sealRequest(ctx, e.logger, request); err != nil {
		e.forget(fut)
		return nil, err
	}

	if _, err := to.ReceiveRequest(ctx, request); err != nil {
		e.forget(fut)
		return nil, err
	}
	return fut, nil
}

func (e *endpoint) forget(fut *future.Future) {
	if fut != nil {
		e.pool.unregister(fut)
	}
}

// nextFutureID hands out an identifier for a local future that has none yet
func (e *endpoint) nextFutureID() future.ID {
	return future.ID{Creator: e.id, Sequence: e.sequence.Inc()}
}

// outgoing replaces an unresolved future by its reference and records the
// destination as a continuation of that future.
func (e *endpoint) outgoing(value any, to destination) any {
	fut, ok := value.(*future.Future)
	if !ok {
		return value
	}

	if result := fut.Result(); result != nil && result.Failure() == nil {
		return result.Success()
	}

	id, bound := fut.ID()
	if !bound {
		if err := fut.Bind(e.nextFutureID()); err != nil && !errors.Is(err, gerrors.ErrFutureAlreadyBound) {
			return value
		}
		id, _ = fut.ID()
	}

	e.pool.addContinuation(fut, to)
	return future.Ref{ID: id}
}

// incoming replaces a future reference by a local future
func (e *endpoint) incoming(value any) (any, error) {
	ref, ok := value.(future.Ref)
	if !ok {
		return value, nil
	}
	return e.pool.registerIncoming(ref.ID, func() *future.Future {
		return future.NewWithTimeout(e.store.futureTimeout)
	})
}

// deliver sends a reply to the given body
func (e *endpoint) deliver(ctx context.Context, to destination, reply *Reply) error {
	handle, err := e.store.Resolve(ctx, to.ID, to.Address)
	if err != nil {
		return err
	}

	reply.Result = e.outgoing(reply.Result, to)
	reply.Timestamp = e.clock.tick()

	if hook := e.store.faultTolerance; hook != nil {
		status, err := hook.OnSendReply(ctx, e.id, reply)
		if err != nil {
			return err
		}
		if status == StatusIgnored {
			return nil
		}
	}

	if err := e.store.sealReply(ctx, e.logger, reply); err != nil {
		return err
	}

	_, err = handle.ReceiveReply(ctx, reply)
	return err
}

// admitReply resolves the futures waiting for the reply
func (e *endpoint) admitReply(ctx context.Context, reply *Reply) (Status, error) {
	if err := e.store.openReply(ctx, reply); err != nil {
		return StatusNonFT, err
	}

	e.clock.observe(reply.Timestamp)
	if !e.pool.receive(reply) {
		e.logger.Warnf("reply discarded: no pending future=(%s)", reply.FutureID)
		e.store.metric.RecordDiscarded(ctx, e.id.String())
		return StatusOrphanReply, nil
	}

	e.store.observe(ctx, e.id, referencesOf(identity.NoID, reply.Result))
	return StatusNonFT, nil
}

func destinationOf(handle Handle) destination {
	to := destination{ID: handle.ID()}
	if addressable, ok := handle.(Addressable); ok {
		to.Address = addressable.Address()
	}
	return to
}

// referencesOf collects the body identifiers found in the given values
func referencesOf(sender identity.ID, values ...any) []identity.ID {
	references := make([]identity.ID, 0, len(values)+1)
	if !sender.IsZero() {
		references = append(references, sender)
	}
	for _, value := range values {
		switch v := value.(type) {
		case identity.ID:
			references = append(references, v)
		case future.Ref:
			references = append(references, v.ID.Creator)
		}
	}
	return references
}
