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
	"context"
	"sync"

	gerrors "github.com/tochemey/goactive/errors"
)

// barrier is the admission gate of a body. Every inbound request or reply
// passes through it. While closed, new admissions block; goroutines already
// inside are not affected.
//
// Admissions are granted in arrival order: a goroutine that reaches the gate
// takes a ticket and is let in only when every earlier ticket has been
// admitted or abandoned. The admission callback runs while the ticket is
// held, so requests blocked on a closed gate reach the queue in the order they
// arrived once the gate opens.
type barrier struct {
	mu         sync.Mutex
	closed     bool
	terminated bool
	inside     int
	nextTicket uint64
	nextAdmit  uint64
	abandoned  map[uint64]struct{}
	// changed is closed and replaced on every state change
	changed chan struct{}
}

func newBarrier() *barrier {
	return &barrier{
		abandoned: make(map[uint64]struct{}),
		changed:   make(chan struct{}),
	}
}

// admit waits for the gate to be open and for the caller's turn, then runs fn.
// The caller is inside the barrier when admit returns nil and must call exit.
// Once the barrier is terminated admit fails with errors.ErrTerminated.
func (b *barrier) admit(ctx context.Context, fn func() error) error {
	b.mu.Lock()
	ticket := b.nextTicket
	b.nextTicket++

	for {
		if b.terminated {
			b.release(ticket)
			b.mu.Unlock()
			return gerrors.ErrTerminated
		}

		if !b.closed && b.nextAdmit == ticket {
			break
		}

		changed := b.changed
		b.mu.Unlock()

		select {
		case <-changed:
			b.mu.Lock()
		case <-ctx.Done():
			b.mu.Lock()
			b.release(ticket)
			b.mu.Unlock()
			return ctx.Err()
		}
	}

	var err error
	if fn != nil {
		err = fn()
	}

	if err == nil {
		b.inside++
	}

	b.advance()
	b.mu.Unlock()
	return err
}

// exit leaves the barrier
func (b *barrier) exit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inside == 0 {
		return gerrors.ErrBarrierMisuse
	}

	b.inside--
	if b.inside == 0 {
		b.broadcast()
	}
	return nil
}

func (b *barrier) close() {
	b.mu.Lock()
	if !b.terminated && !b.closed {
		b.closed = true
		b.broadcast()
	}
	b.mu.Unlock()
}

func (b *barrier) open() {
	b.mu.Lock()
	if b.closed {
		b.closed = false
		b.broadcast()
	}
	b.mu.Unlock()
}

// terminate opens the gate for good; waiters and later callers fail fast
func (b *barrier) terminate() {
	b.mu.Lock()
	if !b.terminated {
		b.terminated = true
		b.closed = false
		b.broadcast()
	}
	b.mu.Unlock()
}

func (b *barrier) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *barrier) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inside
}

// waitIdle blocks until no goroutine is inside the barrier
func (b *barrier) waitIdle(ctx context.Context) error {
	for {
		b.mu.Lock()
		if b.inside == 0 {
			b.mu.Unlock()
			return nil
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// release gives up a ticket that will never be admitted
func (b *barrier) release(ticket uint64) {
	if ticket == b.nextAdmit {
		b.advance()
		return
	}
	b.abandoned[ticket] = struct{}{}
}

func (b *barrier) advance() {
	b.nextAdmit++
	for {
		if _, ok := b.abandoned[b.nextAdmit]; !ok {
			break
		}
		delete(b.abandoned, b.nextAdmit)
		b.nextAdmit++
	}
	b.broadcast()
}

func (b *barrier) broadcast() {
	close(b.changed)
	b.changed = make(chan struct{})
}
