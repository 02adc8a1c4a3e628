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

package security

import (
	"github.com/tochemey/goactive/internal/codec"
	"github.com/tochemey/goactive/log"
)

// Option configures a Sealer
type Option interface {
	// Apply sets the Option value of a Sealer.
	Apply(*Sealer)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Sealer)

// Apply applies the option to the Sealer
func (f OptionFunc) Apply(s *Sealer) {
	f(s)
}

// WithDefaultSession sets the session used for messages that name none
func WithDefaultSession(session string) Option {
	return OptionFunc(func(s *Sealer) {
		s.defaultSession = session
	})
}

// WithCodec sets the codec used to encode sealed payloads.
// It must know the application types carried by method calls.
func WithCodec(c *codec.Codec) Option {
	return OptionFunc(func(s *Sealer) {
		if c != nil {
			s.codec = c
		}
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Sealer) {
		if logger != nil {
			s.logger = logger
		}
	})
}
