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

	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
)

// Migrate moves the body identified by id into dest. The move happens
// between two requests: the service loop finishes the requests queued before
// the call, the body stops accepting messages, and its target, pending
// requests and futures are handed to a new body with the same identifier in
// dest. A forwarder takes the place of the body in s and relays what still
// reaches it.
//
// A body cannot migrate itself from a method it serves.
func (s *Store) Migrate(ctx context.Context, id identity.ID, dest *Store) (*Body, error) {
	if dest == nil || dest == s {
		return nil, gerrors.ErrInvalidRequest
	}

	b, ok := s.bodies.Load(id)
	if !ok {
		return nil, gerrors.NewErrBodyNotFound(id.String())
	}

	if current, ok := ContextFrom(ctx); ok && current.body == b {
		return nil, gerrors.ErrMigrationFromService
	}

	if dest.closed.Load() {
		return nil, gerrors.ErrTerminated
	}

	if _, exists := dest.bodies.Load(id); exists {
		return nil, gerrors.ErrAlreadyActive
	}

	s.Link(dest)
	if !b.migration.CompareAndSwap(migrationNone, migrationRequested) {
		return nil, gerrors.ErrMigrationInProgress
	}

	if err := b.queue.put(b.marker); err != nil {
		b.migration.Store(migrationNone)
		return nil, err
	}

	select {
	case <-b.Done():
	case <-ctx.Done():
		if b.migration.CompareAndSwap(migrationRequested, migrationNone) {
			return nil, ctx.Err()
		}
		<-b.Done()
	}

	if b.migration.Load() != migrationParked {
		return nil, gerrors.ErrTerminated
	}

	b.barrier.close()
	_ = b.barrier.waitIdle(context.Background())

	ctx = context.WithoutCancel(ctx)
	if !b.state.CompareAndSwap(uint32(Active), uint32(Migrated)) {
		// terminated while parked, the service loop is gone
		b.deactivate(ctx)
		return nil, gerrors.ErrTerminated
	}

	disposed := b.queue.dispose()
	remaining := make([]*Request, 0, len(disposed))
	for _, request := range disposed {
		if request != b.marker {
			remaining = append(remaining, request)
		}
	}

	state := b.pool.detach()
	moved := newBody(dest, b.target,
		withID(b.id),
		WithName(b.name),
		WithQueueHint(b.queueHint),
		WithImmediateMethods(b.immediate.ToSlice()...))
	moved.arrived = true

	if err := moved.start(ctx, remaining, state); err != nil {
		b.abortMigration(ctx, remaining, state)
		return nil, err
	}

	forwarder := NewForwarder(moved)
	b.forwardTo(forwarder)

	s.bodies.CompareAndDelete(id, func(v *Body) bool { return v == b })
	s.forwarders.Store(id, forwarder)
	s.location.Update(id, moved)
	b.barrier.open()

	s.logger.Infof("body=(%s) migrated from store=(%s) to store=(%s)", b.display(), s.runtimeName, dest.runtimeName)
	return moved, nil
}

// abortMigration terminates a body whose new location could not be started
func (b *Body) abortMigration(ctx context.Context, remaining []*Request, state poolState) {
	b.state.Store(uint32(Terminated))
	for _, request := range remaining {
		b.dropRequest(ctx, request)
		if !request.OneWay {
			b.sendReply(ctx, request, b.failureReply(request, gerrors.ErrTerminated))
		}
	}

	for _, waiting := range state.pending {
		for _, f := range waiting {
			f.Fail(gerrors.ErrTerminated)
		}
	}

	b.barrier.terminate()
	b.store.unregister(ctx, b)
	b.deactivate(ctx)
	b.logger.Infof("body=(%s) terminated", b.display())
}
