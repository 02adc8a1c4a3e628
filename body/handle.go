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

	"github.com/tochemey/goactive/identity"
)

// Handle is the universal reference to a body. Local bodies, half-bodies,
// forwarders and remote proxies all implement it, so a sender never needs to
// know where the destination lives.
type Handle interface {
	// ID returns the identifier of the referenced body
	ID() identity.ID
	// ReceiveRequest admits a request. It returns synchronously once the request
	// is queued, served immediately, relayed or rejected.
	ReceiveRequest(ctx context.Context, request *Request) (Status, error)
	// ReceiveReply resolves the future the reply is addressed to
	ReceiveReply(ctx context.Context, reply *Reply) (Status, error)
}

// Addressable is implemented by handles that reach a body through a transport
type Addressable interface {
	// Address returns the transport address of the runtime hosting the body
	Address() string
}

// Invoker is the capability a target object implements to have its methods
// invoked by the body. The body never knows the concrete type of its target.
//
// Invoke is called by the service loop only, one call at a time.
type Invoker interface {
	Invoke(ctx context.Context, call *MethodCall) (any, error)
}

// ImmediateInvoker is implemented by target objects that accept immediate
// service. InvokeImmediate runs on the goroutine that delivered the request,
// concurrently with the service loop and with other immediate calls, so it
// must only touch state that is safe to read or write under that concurrency.
type ImmediateInvoker interface {
	Invoker
	InvokeImmediate(ctx context.Context, call *MethodCall) (any, error)
}

// Activator is implemented by target objects that run code on the service
// goroutine before the first request is served.
type Activator interface {
	Activate(ctx context.Context) error
}

// Deactivator is implemented by target objects that run code on the service
// goroutine once the body has been terminated.
type Deactivator interface {
	Deactivate(ctx context.Context)
}

// Transport reaches bodies hosted by other runtimes
type Transport interface {
	// Address returns the address of the local runtime
	Address() string
	// Dial returns a handle on the body hosted at the given address
	Dial(ctx context.Context, address string, id identity.ID) (Handle, error)
}

// Directory maps body identifiers to the transport address of the runtime
// hosting them. It is shared between runtimes.
type Directory interface {
	Register(ctx context.Context, id identity.ID, address string) error
	Lookup(ctx context.Context, id identity.ID) (string, error)
	Remove(ctx context.Context, id identity.ID) error
}
