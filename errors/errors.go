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

var (
	// ErrTerminated is returned when a request or a reply reaches a body that has been terminated.
	ErrTerminated = errors.New("body is terminated")

	// ErrNotActive is returned when a body is used before it has been started.
	ErrNotActive = errors.New("body is not active")

	// ErrAlreadyActive is returned when Start is called on a body that has already left the unstarted state.
	ErrAlreadyActive = errors.New("body is already active")

	// ErrDeliveryFailure indicates that the transport could not reach the destination body.
	ErrDeliveryFailure = errors.New("delivery failure")

	// ErrBarrierMisuse is returned when Exit is called on a barrier without a matching Enter.
	ErrBarrierMisuse = errors.New("barrier exit without enter")

	// ErrUnmatchedReply is returned when a reply has no pending future in the destination pool.
	ErrUnmatchedReply = errors.New("reply does not match any pending future")

	// ErrFutureTimeout is returned when a future is not resolved within its timeout.
	ErrFutureTimeout = errors.New("future timeout")

	// ErrFutureAlreadyBound is returned when a future that already carries an identifier is bound again.
	ErrFutureAlreadyBound = errors.New("future is already bound")

	// ErrSecurityNotAvailable is returned by a security hook that cannot secure a message.
	// The runtime then proceeds unsecured.
	ErrSecurityNotAvailable = errors.New("security not available")

	// ErrHalfBodyCannotServe is returned when a request is sent to a half-body.
	ErrHalfBodyCannotServe = errors.New("half-body cannot serve requests")

	// ErrBodyNotFound is returned when an identifier cannot be resolved to a handle.
	ErrBodyNotFound = errors.New("body not found")

	// ErrInvalidRequest is returned when a request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidReply is returned when a reply is malformed.
	ErrInvalidReply = errors.New("invalid reply")

	// ErrMigrationInProgress is returned when a migration is requested for a body that is already moving.
	ErrMigrationInProgress = errors.New("migration in progress")

	// ErrMigrationFromService is returned when a body is asked to migrate by a method it is serving.
	ErrMigrationFromService = errors.New("a body cannot be migrated while serving the migration call")

	// ErrNoTransport is returned when a remote address must be dialed but no transport is configured.
	ErrNoTransport = errors.New("no transport configured")

	// ErrUndefinedTarget is returned when a body is created without a target object.
	ErrUndefinedTarget = errors.New("target object is not defined")

	// ErrMethodNotFound may be returned by targets that do not implement the requested method.
	ErrMethodNotFound = errors.New("method not found")
)

// NewErrDeliveryFailure wraps a transport error with ErrDeliveryFailure.
func NewErrDeliveryFailure(err error) error {
	return errors.Join(ErrDeliveryFailure, err)
}

// NewErrBodyNotFound formats an ErrBodyNotFound with the given identifier.
func NewErrBodyNotFound(id string) error {
	return fmt.Errorf("(body=%s) %w", id, ErrBodyNotFound)
}

// NewErrMethodNotFound formats an ErrMethodNotFound with the given method name.
func NewErrMethodNotFound(method string) error {
	return fmt.Errorf("(method=%s) %w", method, ErrMethodNotFound)
}

// ServiceError is the failure raised by a target object while serving a request.
// It reaches the caller through the future of the request.
type ServiceError struct {
	method  string
	message string
}

// enforce compilation error
var _ error = (*ServiceError)(nil)

// NewServiceError creates an instance of ServiceError
func NewServiceError(method, message string) *ServiceError {
	return &ServiceError{method: method, message: message}
}

// Error implements the standard error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service failure: method=(%s): %s", e.method, e.message)
}

// Method returns the method whose invocation failed
func (e *ServiceError) Method() string {
	return e.method
}

// Message returns the failure message raised by the target
func (e *ServiceError) Message() string {
	return e.message
}

// PanicError wraps a panic recovered while invoking a target method
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.err)
}

// Unwrap returns the recovered value as an error
func (p *PanicError) Unwrap() error {
	return p.err
}

// InternalError defines a fault of the runtime itself, outside the serve/reply path
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an instance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}
