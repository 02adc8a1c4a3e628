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
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BodyMetric defines the instruments recorded by bodies
type BodyMetric struct {
	// Specifies the total number of requests served by service loops
	servedCount metric.Int64Counter
	// Specifies the total number of requests served immediately
	immediateCount metric.Int64Counter
	// Specifies the total number of requests whose service failed
	failureCount metric.Int64Counter
	// Specifies the total number of replies discarded for lack of a pending future
	discardedCount metric.Int64Counter
	// Specifies the service duration of requests in milliseconds
	serviceDuration metric.Int64Histogram
}

// NewBodyMetric creates an instance of BodyMetric
func NewBodyMetric(meter metric.Meter) (*BodyMetric, error) {
	bodyMetric := new(BodyMetric)
	var err error
	if bodyMetric.servedCount, err = meter.Int64Counter(
		"body_requests_served",
		metric.WithDescription("Total number of requests served"),
	); err != nil {
		return nil, fmt.Errorf("failed to create servedCount instrument, %w", err)
	}

	if bodyMetric.immediateCount, err = meter.Int64Counter(
		"body_requests_immediate",
		metric.WithDescription("Total number of requests served immediately"),
	); err != nil {
		return nil, fmt.Errorf("failed to create immediateCount instrument, %w", err)
	}

	if bodyMetric.failureCount, err = meter.Int64Counter(
		"body_service_failures",
		metric.WithDescription("Total number of service failures"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failureCount instrument, %w", err)
	}

	if bodyMetric.discardedCount, err = meter.Int64Counter(
		"body_replies_discarded",
		metric.WithDescription("Total number of unmatched replies discarded"),
	); err != nil {
		return nil, fmt.Errorf("failed to create discardedCount instrument, %w", err)
	}

	if bodyMetric.serviceDuration, err = meter.Int64Histogram(
		"body_service_duration",
		metric.WithDescription("The latency of served requests in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create serviceDuration instrument, %w", err)
	}

	return bodyMetric, nil
}

// RecordServed records a served request and its duration
func (x *BodyMetric) RecordServed(ctx context.Context, body, method string, immediate bool, duration time.Duration, failed bool) {
	attrs := metric.WithAttributes(attribute.String("body", body), attribute.String("method", method))
	x.servedCount.Add(ctx, 1, attrs)
	x.serviceDuration.Record(ctx, duration.Milliseconds(), attrs)
	if immediate {
		x.immediateCount.Add(ctx, 1, attrs)
	}
	if failed {
		x.failureCount.Add(ctx, 1, attrs)
	}
}

// RecordDiscarded records a discarded reply
func (x *BodyMetric) RecordDiscarded(ctx context.Context, body string) {
	x.discardedCount.Add(ctx, 1, metric.WithAttributes(attribute.String("body", body)))
}

// ServedCount returns the served requests counter
func (x *BodyMetric) ServedCount() metric.Int64Counter {
	return x.servedCount
}

// ImmediateCount returns the immediate requests counter
func (x *BodyMetric) ImmediateCount() metric.Int64Counter {
	return x.immediateCount
}

// FailureCount returns the service failures counter
func (x *BodyMetric) FailureCount() metric.Int64Counter {
	return x.failureCount
}

// DiscardedCount returns the discarded replies counter
func (x *BodyMetric) DiscardedCount() metric.Int64Counter {
	return x.discardedCount
}

// ServiceDuration returns the service duration histogram
func (x *BodyMetric) ServiceDuration() metric.Int64Histogram {
	return x.serviceDuration
}
