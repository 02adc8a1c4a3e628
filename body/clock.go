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

import "go.uber.org/atomic"

// clock is a Lamport clock. Every send ticks it and every admission moves it
// past the timestamp of the incoming message.
type clock struct {
	now *atomic.Uint64
}

func newClock() *clock {
	return &clock{now: atomic.NewUint64(0)}
}

func (c *clock) tick() uint64 {
	return c.now.Inc()
}

func (c *clock) observe(remote uint64) uint64 {
	for {
		local := c.now.Load()
		next := max(local, remote) + 1
		if c.now.CompareAndSwap(local, next) {
			return next
		}
	}
}

func (c *clock) time() uint64 {
	return c.now.Load()
}
