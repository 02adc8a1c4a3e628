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
	"fmt"
	"time"

	gerrors "github.com/tochemey/goactive/errors"
)

// run is the service loop. It serves queued requests one at a time until the
// queue is disposed, a termination request is served or a migration parks it.
func (b *Body) run(ctx context.Context) {
	defer b.markDone()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("body=(%s) service loop fault: %v", b.display(), r)
			_ = b.Terminate(ctx)
		}
	}()

	if activator, ok := b.target.(Activator); ok && !b.arrived {
		if err := activator.Activate(b.serviceContext(ctx, nil, false)); err != nil {
			b.logger.Errorf("body=(%s) failed to activate: %v", b.display(), err)
			_ = b.Terminate(ctx)
			return
		}
	}

	for {
		request, err := b.queue.get()
		if err != nil {
			break
		}

		if request == b.marker {
			if b.migration.CompareAndSwap(migrationRequested, migrationParked) {
				return
			}
			continue
		}

		if request.Method() == TerminateMethod {
			if !request.OneWay {
				b.sendReply(ctx, request, &Reply{
					FutureID:    request.FutureID(),
					Destination: request.Sender,
					Method:      TerminateMethod,
				})
			}
			_ = b.Terminate(ctx)
			break
		}

		b.serve(ctx, request, false)
	}

	if b.State() == Terminated {
		b.deactivate(ctx)
	}
}

// dropRequest tells the fault tolerance hook a received request will not be served
func (b *Body) dropRequest(ctx context.Context, request *Request) {
	hook := b.store.faultTolerance
	if hook == nil {
		return
	}

	if err := hook.OnDropRequest(context.WithoutCancel(ctx), b.id, request); err != nil {
		b.logger.Warnf("body=(%s) fault tolerance failure dropping request=(%s): %v", b.display(), request.FutureID(), err)
	}
}

func (b *Body) deactivate(ctx context.Context) {
	if deactivator, ok := b.target.(Deactivator); ok {
		deactivator.Deactivate(b.serviceContext(ctx, nil, false))
	}
}

// serve invokes the requested method on the target and replies to the
// sender when the request is two-way.
func (b *Body) serve(ctx context.Context, request *Request, immediate bool) {
	b.serving.Inc()
	defer b.serving.Dec()

	hook := b.store.faultTolerance
	if hook != nil {
		status, err := hook.OnServeRequestBefore(ctx, b.id, request)
		if err != nil {
			b.logger.Errorf("body=(%s) cannot serve method=(%s): %v", b.display(), request.Method(), err)
			b.dropRequest(ctx, request)
			if !request.OneWay {
				b.sendReply(ctx, request, b.failureReply(request, err))
			}
			return
		}
		if status == StatusIgnored {
			return
		}
	}

	start := time.Now()
	result, err := b.invoke(b.serviceContext(ctx, request, immediate), request.Call, immediate)
	b.store.metric.RecordServed(ctx, b.id.String(), request.Method(), immediate, time.Since(start), err != nil)

	if hook != nil {
		if _, hookErr := hook.OnServeRequestAfter(ctx, b.id, request); hookErr != nil {
			b.logger.Warnf("body=(%s) fault tolerance failure after method=(%s): %v", b.display(), request.Method(), hookErr)
		}
	}

	if request.OneWay {
		if err != nil {
			b.logger.Errorf("body=(%s) one-way method=(%s) failed: %v", b.display(), request.Method(), err)
		}
		return
	}

	if err != nil {
		b.sendReply(ctx, request, b.failureReply(request, err))
		return
	}

	b.sendReply(ctx, request, &Reply{
		FutureID:    request.FutureID(),
		Destination: request.Sender,
		Method:      request.Method(),
		Result:      result,
	})
}

func (b *Body) invoke(ctx context.Context, call *MethodCall, immediate bool) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			switch x := r.(type) {
			case error:
				err = gerrors.NewPanicError(x)
			default:
				err = gerrors.NewPanicError(fmt.Errorf("%v", x))
			}
		}
	}()

	if immediate {
		return b.target.(ImmediateInvoker).InvokeImmediate(ctx, call)
	}
	return b.target.Invoke(ctx, call)
}

// sendReply delivers the reply to the sender of the request. When the reply
// cannot be delivered the delivery failure is sent in its place.
func (b *Body) sendReply(ctx context.Context, request *Request, reply *Reply) {
	to := destination{ID: request.Sender, Address: request.SenderAddress}
	err := b.deliver(ctx, to, reply)
	if err == nil {
		return
	}

	b.logger.Warnf("body=(%s) failed to reply method=(%s) to body=(%s): %v", b.display(), request.Method(), request.Sender, err)
	if reply.Failure != nil {
		return
	}

	if err := b.deliver(ctx, to, b.failureReply(request, err)); err != nil {
		b.logger.Errorf("body=(%s) failed to reply method=(%s) failure to body=(%s): %v", b.display(), request.Method(), request.Sender, err)
	}
}

func (b *Body) failureReply(request *Request, err error) *Reply {
	return &Reply{
		FutureID:    request.FutureID(),
		Destination: request.Sender,
		Method:      request.Method(),
		Failure:     gerrors.EncodeFailure(request.Method(), err),
	}
}

func (b *Body) serviceContext(ctx context.Context, request *Request, immediate bool) context.Context {
	return withContext(ctx, &Context{
		store:     b.store,
		owner:     b.endpoint,
		body:      b,
		request:   request,
		immediate: immediate,
	})
}
