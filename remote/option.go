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

package remote

import (
	"time"

	"github.com/tochemey/goactive/internal/codec"
)

// Option configures a Config
type Option interface {
	// Apply sets the Option value of a Config.
	Apply(*Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

// Apply applies the option to the Config
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithPrefix sets the first token of the node subject
func WithPrefix(prefix string) Option {
	return OptionFunc(func(c *Config) {
		c.Prefix = prefix
	})
}

// WithCompression enables zstd compression of the payloads larger than threshold.
// A non positive threshold keeps the default.
func WithCompression(threshold int) Option {
	return OptionFunc(func(c *Config) {
		c.Compression = true
		if threshold > 0 {
			c.CompressionThreshold = threshold
		}
	})
}

// WithRequestTimeout bounds the wait for message acknowledgements
func WithRequestTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.RequestTimeout = timeout
	})
}

// WithConnectionRetries sets the connection attempts made by Start and the
// longest pause between two of them
func WithConnectionRetries(maxRetries int, reconnectWait time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.MaxRetries = maxRetries
		if reconnectWait > 0 {
			c.ReconnectWait = reconnectWait
		}
	})
}

// WithTypes registers the application types carried by method calls
func WithTypes(types ...codec.Type) Option {
	return OptionFunc(func(c *Config) {
		c.Types = append(c.Types, types...)
	})
}
