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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	err := errors.New("something went wrong")
	internalErr := NewInternalError(err)
	require.Error(t, internalErr)
	require.EqualError(t, internalErr, "internal error: something went wrong")
	assert.ErrorIs(t, internalErr.Unwrap(), err)

	panicErr := NewPanicError(err)
	require.EqualError(t, panicErr, "panic: something went wrong")
	assert.ErrorIs(t, panicErr, err)

	serviceErr := NewServiceError("add", "boom")
	require.EqualError(t, serviceErr, "service failure: method=(add): boom")
	assert.Equal(t, "add", serviceErr.Method())
	assert.Equal(t, "boom", serviceErr.Message())

	deliveryErr := NewErrDeliveryFailure(err)
	assert.ErrorIs(t, deliveryErr, ErrDeliveryFailure)
	assert.ErrorIs(t, deliveryErr, err)

	assert.ErrorIs(t, NewErrBodyNotFound("x"), ErrBodyNotFound)
	assert.ErrorIs(t, NewErrMethodNotFound("x"), ErrMethodNotFound)
}

func TestFailure(t *testing.T) {
	t.Run("With nil error", func(t *testing.T) {
		assert.Nil(t, EncodeFailure("get", nil))
		var failure *Failure
		assert.NoError(t, failure.Err())
	})
	t.Run("With service error", func(t *testing.T) {
		failure := EncodeFailure("get", NewServiceError("get", "bad state"))
		require.NotNil(t, failure)
		assert.Equal(t, FailureService, failure.Kind)

		var serviceErr *ServiceError
		require.ErrorAs(t, failure.Err(), &serviceErr)
		assert.Equal(t, "get", serviceErr.Method())
		assert.Equal(t, "bad state", serviceErr.Message())
	})
	t.Run("With terminated error", func(t *testing.T) {
		failure := EncodeFailure("get", fmt.Errorf("while enqueuing: %w", ErrTerminated))
		require.NotNil(t, failure)
		assert.Equal(t, FailureTerminated, failure.Kind)
		assert.ErrorIs(t, failure.Err(), ErrTerminated)
	})
	t.Run("With sentinel kinds", func(t *testing.T) {
		assert.ErrorIs(t, EncodeFailure("m", ErrDeliveryFailure).Err(), ErrDeliveryFailure)
		assert.ErrorIs(t, EncodeFailure("m", ErrFutureTimeout).Err(), ErrFutureTimeout)
		assert.Equal(t, ErrTerminated, EncodeFailure("m", ErrTerminated).Err())
	})
	t.Run("With plain error", func(t *testing.T) {
		failure := EncodeFailure("put", errors.New("disk full"))
		var serviceErr *ServiceError
		require.ErrorAs(t, failure.Err(), &serviceErr)
		assert.Equal(t, "disk full", serviceErr.Message())
	})
	t.Run("With internal kind", func(t *testing.T) {
		failure := &Failure{Kind: FailureInternal, Message: "oops"}
		var internalErr *InternalError
		require.ErrorAs(t, failure.Err(), &internalErr)
	})
	t.Run("Kind names", func(t *testing.T) {
		assert.Equal(t, "service", FailureService.String())
		assert.Equal(t, "terminated", FailureTerminated.String())
		assert.Equal(t, "internal", FailureKind(42).String())
	})
}

func TestFromString(t *testing.T) {
	assert.NoError(t, FromString(""))
	assert.Equal(t, ErrTerminated, FromString(ErrTerminated.Error()))
	assert.Equal(t, ErrBodyNotFound, FromString(ErrBodyNotFound.Error()))
	assert.Equal(t, ErrSecurityNotAvailable, FromString(ErrSecurityNotAvailable.Error()))
	assert.Equal(t, ErrDeliveryFailure, FromString(ErrDeliveryFailure.Error()))
	assert.EqualError(t, FromString("other"), "other")
}
