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

package errors

import (
	"errors"
	"fmt"
)

// FailureKind classifies an encoded failure carried by a reply
type FailureKind int

const (
	// FailureService is a failure raised by the target object
	FailureService FailureKind = iota
	// FailureTerminated means the destination body was terminated before serving the request
	FailureTerminated
	// FailureDelivery means the reply or request could not be delivered
	FailureDelivery
	// FailureTimeout means the future timed out
	FailureTimeout
	// FailureInternal is any other failure
	FailureInternal
)

// String returns the kind name
func (k FailureKind) String() string {
	switch k {
	case FailureService:
		return "service"
	case FailureTerminated:
		return "terminated"
	case FailureDelivery:
		return "delivery"
	case FailureTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Failure is the wire encoding of an error carried by a reply.
// Errors are encoded as kind + message so that the reply envelope stays
// stable across runtimes; known kinds restore the sentinel on decode.
type Failure struct {
	Kind    FailureKind `cbor:"1,keyasint"`
	Method  string      `cbor:"2,keyasint,omitempty"`
	Message string      `cbor:"3,keyasint"`
}

// EncodeFailure converts an error into its wire representation.
func EncodeFailure(method string, err error) *Failure {
	if err == nil {
		return nil
	}

	var serviceErr *ServiceError
	switch {
	case errors.As(err, &serviceErr):
		return &Failure{Kind: FailureService, Method: serviceErr.Method(), Message: serviceErr.Message()}
	case errors.Is(err, ErrTerminated):
		return &Failure{Kind: FailureTerminated, Method: method, Message: err.Error()}
	case errors.Is(err, ErrDeliveryFailure):
		return &Failure{Kind: FailureDelivery, Method: method, Message: err.Error()}
	case errors.Is(err, ErrFutureTimeout):
		return &Failure{Kind: FailureTimeout, Method: method, Message: err.Error()}
	default:
		return &Failure{Kind: FailureService, Method: method, Message: err.Error()}
	}
}

// Err restores the error carried by the failure.
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}

	switch f.Kind {
	case FailureService:
		return NewServiceError(f.Method, f.Message)
	case FailureTerminated:
		return wrapIfDifferent(ErrTerminated, f.Message)
	case FailureDelivery:
		return wrapIfDifferent(ErrDeliveryFailure, f.Message)
	case FailureTimeout:
		return wrapIfDifferent(ErrFutureTimeout, f.Message)
	default:
		return NewInternalError(errors.New(f.Message))
	}
}

func wrapIfDifferent(sentinel error, message string) error {
	if message == "" || message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%s: %w", message, sentinel)
}

// FromString maps an error message received from a remote runtime back to
// a sentinel when it matches one, or to an opaque error otherwise.
func FromString(message string) error {
	switch message {
	case "":
		return nil
	case ErrTerminated.Error():
		return ErrTerminated
	case ErrNotActive.Error():
		return ErrNotActive
	case ErrHalfBodyCannotServe.Error():
		return ErrHalfBodyCannotServe
	case ErrBodyNotFound.Error():
		return ErrBodyNotFound
	case ErrInvalidRequest.Error():
		return ErrInvalidRequest
	case ErrInvalidReply.Error():
		return ErrInvalidReply
	case ErrSecurityNotAvailable.Error():
		return ErrSecurityNotAvailable
	case ErrDeliveryFailure.Error():
		return ErrDeliveryFailure
	default:
		return errors.New(message)
	}
}
