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
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
)

// TerminateMethod is the name of the method call that terminates a body once
// the requests queued before it have been served.
const TerminateMethod = "_terminateAO"

// MethodCall describes the invocation of a method on the target object
type MethodCall struct {
	// Name is the method name
	Name string `cbor:"1,keyasint"`
	// Args holds the method arguments
	Args []any `cbor:"2,keyasint,omitempty"`
	// Immediate asks the receiver to serve the call on the receiving goroutine,
	// bypassing the request queue. It is honored only when the target object
	// implements ImmediateInvoker.
	Immediate bool `cbor:"3,keyasint,omitempty"`
}

// NewMethodCall creates a MethodCall
func NewMethodCall(name string, args ...any) *MethodCall {
	return &MethodCall{Name: name, Args: args}
}

// NewImmediateCall creates a MethodCall flagged for immediate service
func NewImmediateCall(name string, args ...any) *MethodCall {
	return &MethodCall{Name: name, Args: args, Immediate: true}
}

// Request is a method call in flight between two bodies.
// It is created by the sender and owned by the receiver once delivered.
type Request struct {
	Call          *MethodCall `cbor:"1,keyasint,omitempty"`
	Sender        identity.ID `cbor:"2,keyasint"`
	SenderAddress string      `cbor:"3,keyasint,omitempty"`
	Destination   identity.ID `cbor:"4,keyasint"`
	Sequence      uint64      `cbor:"5,keyasint"`
	OneWay        bool        `cbor:"6,keyasint,omitempty"`
	// Timestamp is the Lamport time of the sender when the request left
	Timestamp uint64 `cbor:"7,keyasint"`
	SessionID string `cbor:"8,keyasint,omitempty"`
	// Ciphered holds the sealed call when Sealed is set
	Ciphered []byte `cbor:"9,keyasint,omitempty"`
	Sealed   bool   `cbor:"10,keyasint,omitempty"`
}

// FutureID returns the identifier of the future awaiting the reply of this request
func (r *Request) FutureID() future.ID {
	return future.ID{Creator: r.Sender, Sequence: r.Sequence}
}

// Method returns the name of the requested method, empty while the request is sealed
func (r *Request) Method() string {
	if r.Call == nil {
		return ""
	}
	return r.Call.Name
}

func (r *Request) validate() error {
	if r == nil || r.Sender.IsZero() {
		return gerrors.ErrInvalidRequest
	}
	if r.Call == nil && !r.Sealed {
		return gerrors.ErrInvalidRequest
	}
	return nil
}

// Reply carries the result of a served request back to the future awaiting it
type Reply struct {
	FutureID    future.ID        `cbor:"1,keyasint"`
	Destination identity.ID      `cbor:"2,keyasint"`
	Method      string           `cbor:"3,keyasint,omitempty"`
	Result      any              `cbor:"4,keyasint,omitempty"`
	Failure     *gerrors.Failure `cbor:"5,keyasint,omitempty"`
	// Continuation marks the value of a future forwarded by automatic continuation
	Continuation bool   `cbor:"6,keyasint,omitempty"`
	Timestamp    uint64 `cbor:"7,keyasint"`
	SessionID    string `cbor:"8,keyasint,omitempty"`
	Ciphered     []byte `cbor:"9,keyasint,omitempty"`
	Sealed       bool   `cbor:"10,keyasint,omitempty"`
}

// Err returns the failure carried by the reply
func (r *Reply) Err() error {
	return r.Failure.Err()
}

func (r *Reply) validate() error {
	if r == nil || r.FutureID.IsZero() {
		return gerrors.ErrInvalidReply
	}
	return nil
}
