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
	"github.com/tochemey/goactive/internal/validation"
)

const (
	// DefaultPrefix is the first token of the subjects nodes listen on
	DefaultPrefix = "goactive"
	// DefaultRequestTimeout bounds the wait for a message acknowledgement
	DefaultRequestTimeout = 5 * time.Second
	// DefaultMaxRetries is the number of connection attempts made by Start
	DefaultMaxRetries = 5
	// DefaultReconnectWait is the longest pause between two connection attempts
	DefaultReconnectWait = 2 * time.Second
	// DefaultCompressionThreshold is the smallest payload compressed when
	// compression is enabled
	DefaultCompressionThreshold = 1024
)

// Config defines the settings of a Node
type Config struct {
	// URL is the address of the NATS server
	URL string
	// Prefix is the first token of the node subject
	Prefix string
	// Name identifies the node. Its address is Prefix.Name
	Name string
	// Compression enables zstd compression of large payloads
	Compression          bool
	CompressionThreshold int
	RequestTimeout       time.Duration
	MaxRetries           int
	ReconnectWait        time.Duration
	// Types lists the application types carried by method arguments and results
	Types []codec.Type
}

// NewConfig creates a Config for the node named name connecting to url
func NewConfig(url, name string, opts ...Option) *Config {
	config := &Config{
		URL:                  url,
		Name:                 name,
		Prefix:               DefaultPrefix,
		CompressionThreshold: DefaultCompressionThreshold,
		RequestTimeout:       DefaultRequestTimeout,
		MaxRetries:           DefaultMaxRetries,
		ReconnectWait:        DefaultReconnectWait,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Address returns the subject the node listens on
func (x *Config) Address() string {
	return x.Prefix + "." + x.Name
}

// Validate checks the config
func (x *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("URL", x.URL)).
		AddValidator(validation.NewEmptyStringValidator("Name", x.Name)).
		AddValidator(validation.NewSubjectTokenValidator("Name", x.Name)).
		AddValidator(validation.NewSubjectTokenValidator("Prefix", x.Prefix)).
		AddAssertion(x.RequestTimeout > 0, "the [RequestTimeout] must be positive").
		AddAssertion(x.MaxRetries > 0, "the [MaxRetries] must be positive").
		Validate()
}
