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

// SecurityHook seals and opens messages.
// A hook returning errors.ErrSecurityNotAvailable lets the message proceed
// unsecured.
type SecurityHook interface {
	// SealRequest is called before a request leaves its sender
	SealRequest(ctx context.Context, request *Request) error
	// OpenRequest is called on a sealed request once it passed the receiver's barrier
	OpenRequest(ctx context.Context, request *Request) error
	// SealReply is called before a reply leaves the serving body
	SealReply(ctx context.Context, reply *Reply) error
	// OpenReply is called on a sealed reply before it resolves its future
	OpenReply(ctx context.Context, reply *Reply) error
}

// FaultToleranceHook observes the life of a request.
// Returning StatusIgnored vetoes the message; any other status is forwarded
// to the caller of the entry point. A returned error aborts the operation.
type FaultToleranceHook interface {
	// OnReceiveRequest is called before a request is admitted
	OnReceiveRequest(ctx context.Context, receiver identity.ID, request *Request) (Status, error)
	// OnServeRequestBefore is called right before a request is served
	OnServeRequestBefore(ctx context.Context, receiver identity.ID, request *Request) (Status, error)
	// OnServeRequestAfter is called right after a request is served
	OnServeRequestAfter(ctx context.Context, receiver identity.ID, request *Request) (Status, error)
	// OnSendReply is called before a reply is sent
	OnSendReply(ctx context.Context, sender identity.ID, reply *Reply) (Status, error)
	// OnDropRequest is called on a request passed to OnReceiveRequest that the
	// receiver will not serve: it was refused at admission or discarded by a
	// termination.
	OnDropRequest(ctx context.Context, receiver identity.ID, request *Request) error
}

// ReferenceTracker is notified with the body references found in every
// admitted request or reply.
type ReferenceTracker interface {
	Observe(ctx context.Context, owner identity.ID, references []identity.ID)
}
