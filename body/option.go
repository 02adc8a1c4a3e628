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
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/log"
)

// Option configures a body
type Option interface {
	// Apply sets the Option value of a body.
	Apply(*Body)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Body)

// Apply applies the options to the body
func (f OptionFunc) Apply(b *Body) {
	f(b)
}

// WithName sets a human readable name used in logs
func WithName(name string) Option {
	return OptionFunc(func(b *Body) {
		b.name = name
	})
}

// WithImmediateMethods marks methods that are served by the caller's
// goroutine instead of being queued
func WithImmediateMethods(methods ...string) Option {
	return OptionFunc(func(b *Body) {
		for _, method := range methods {
			b.immediate.Add(method)
		}
	})
}

// WithLogger overrides the logger inherited from the store
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(b *Body) {
		if logger != nil {
			b.logger = logger
		}
	})
}

// WithQueueHint sets the initial capacity of the request queue
func WithQueueHint(hint int64) Option {
	return OptionFunc(func(b *Body) {
		if hint > 0 {
			b.queueHint = hint
		}
	})
}

// withID gives a body an existing identifier. Only migration uses it.
func withID(id identity.ID) Option {
	return OptionFunc(func(b *Body) {
		b.id = id
	})
}
