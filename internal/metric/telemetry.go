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

package metric

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/goactive"

// Option configures Telemetry
type Option func(*Telemetry)

// WithMeterProvider sets the meter provider. A nil provider is ignored.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(t *Telemetry) {
		if provider != nil {
			t.meterProvider = provider
		}
	}
}

// Telemetry holds the meter used to create the runtime instruments
type Telemetry struct {
	meterProvider metric.MeterProvider
	meter         metric.Meter
}

// New creates a Telemetry. The global meter provider is used unless one is given.
func New(opts ...Option) *Telemetry {
	t := &Telemetry{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(t)
	}
	t.meter = t.meterProvider.Meter(instrumentationName)
	return t
}

// Meter returns the Meter used by this Telemetry.
func (t *Telemetry) Meter() metric.Meter {
	return t.meter
}
