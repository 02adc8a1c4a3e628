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

	"github.com/tochemey/goactive/identity"
)

// Forwarder stands where a body used to live before it migrated and relays
// whatever it receives to the body's new location.
type Forwarder struct {
	id      identity.ID
	target  Handle
	relayed *atomic.Int64
}

var _ Handle = (*Forwarder)(nil)

// NewForwarder creates a Forwarder relaying to target
func NewForwarder(target Handle) *Forwarder {
	return &Forwarder{
		id:      target.ID(),
		target:  target,
		relayed: atomic.NewInt64(0),
	}
}

// ID returns the identifier of the migrated body
func (f *Forwarder) ID() identity.ID {
	return f.id
}

// Target returns the handle messages are relayed to
func (f *Forwarder) Target() Handle {
	return f.target
}

// Address returns the address of the new location when known
func (f *Forwarder) Address() string {
	if addressable, ok := f.target.(Addressable); ok {
		return addressable.Address()
	}
	return ""
}

// Relayed returns the number of messages relayed so far
func (f *Forwarder) Relayed() int64 {
	return f.relayed.Load()
}

// ReceiveRequest relays the request
func (f *Forwarder) ReceiveRequest(ctx context.Context, request *Request) (Status, error) {
	if _, err := f.target.ReceiveRequest(ctx, request); err != nil {
		return StatusNonFT, err
	}
	f.relayed.Inc()
	return StatusForwarded, nil
}

// ReceiveReply relays the reply
func (f *Forwarder) ReceiveReply(ctx context.Context, reply *Reply) (Status, error) {
	if _, err := f.target.ReceiveReply(ctx, reply); err != nil {
		return StatusNonFT, err
	}
	f.relayed.Inc()
	return StatusForwarded, nil
}
