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

package ftlog

import (
	"time"

	"github.com/tochemey/goactive/internal/codec"
	"github.com/tochemey/goactive/log"
)

// Option configures a Journal
type Option interface {
	// Apply sets the Option value of a Journal.
	Apply(*Journal)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Journal)

// Apply applies the option to the Journal
func (f OptionFunc) Apply(j *Journal) {
	f(j)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(j *Journal) {
		if logger != nil {
			j.logger = logger
		}
	})
}

// WithCodec sets the codec used to encode journaled requests.
// It must know the application types carried by method calls.
func WithCodec(c *codec.Codec) Option {
	return OptionFunc(func(j *Journal) {
		if c != nil {
			j.codec = c
		}
	})
}

// WithOpenTimeout bounds the wait for the lock of the journal file
func WithOpenTimeout(timeout time.Duration) Option {
	return OptionFunc(func(j *Journal) {
		if timeout > 0 {
			j.timeout = timeout
		}
	})
}
