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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goactive/log"
)

// StoreOption configures a Store
type StoreOption interface {
	// Apply sets the StoreOption value of a Store.
	Apply(*Store)
}

var _ StoreOption = StoreOptionFunc(nil)

// StoreOptionFunc implements the StoreOption interface.
type StoreOptionFunc func(*Store)

// Apply applies the options to the Store
func (f StoreOptionFunc) Apply(s *Store) {
	f(s)
}

// WithRuntimeName sets the name the store stamps in the identifiers it generates.
// A random name is used when none is given.
func WithRuntimeName(name string) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.runtimeName = name
	})
}

// WithStoreLogger sets the logger of the store and of the bodies it creates
func WithStoreLogger(logger log.Logger) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithTransport makes bodies of other runtimes reachable
func WithTransport(transport Transport) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.transport = transport
	})
}

// WithDirectory sets the directory used to locate bodies by identifier
func WithDirectory(directory Directory) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.directory = directory
	})
}

// WithSecurity seals and opens every message leaving or reaching a body
func WithSecurity(hook SecurityHook) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.security = hook
	})
}

// WithFaultTolerance sets the fault tolerance hook
func WithFaultTolerance(hook FaultToleranceHook) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.faultTolerance = hook
	})
}

// WithReferenceTracker reports the bodies referenced by incoming messages
func WithReferenceTracker(tracker ReferenceTracker) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.tracker = tracker
	})
}

// WithMeterProvider sets the meter provider of the runtime instruments
func WithMeterProvider(provider metric.MeterProvider) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		s.meterProvider = provider
	})
}

// WithFutureTimeout bounds the wait of the futures created for two-way requests.
// Zero means no bound.
func WithFutureTimeout(timeout time.Duration) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		if timeout >= 0 {
			s.futureTimeout = timeout
		}
	})
}

// WithShutdownTimeout bounds the wait for the service loops on Shutdown
func WithShutdownTimeout(timeout time.Duration) StoreOption {
	return StoreOptionFunc(func(s *Store) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	})
}
