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

// Package dgc tracks the references bodies hold to each other and collects
// the bodies no root can reach anymore.
package dgc

import (
	"context"

	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/multierr"

	"github.com/tochemey/goactive/body"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/xsync"
	"github.com/tochemey/goactive/log"
)

// Tracker is a body.ReferenceTracker building the graph of the references
// observed in the messages bodies receive: when a body receives a message
// naming another body, it is assumed to hold a reference to it.
type Tracker struct {
	references *xsync.Map[identity.ID, goset.Set[identity.ID]]
	logger     log.Logger
}

var _ body.ReferenceTracker = (*Tracker)(nil)

// NewTracker creates an empty Tracker
func NewTracker(logger log.Logger) *Tracker {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Tracker{
		references: xsync.NewMap[identity.ID, goset.Set[identity.ID]](),
		logger:     logger,
	}
}

// Observe records that owner references the given bodies
func (t *Tracker) Observe(_ context.Context, owner identity.ID, references []identity.ID) {
	set, _ := t.references.SetIfAbsent(owner, goset.NewSet[identity.ID]())
	for _, reference := range references {
		if reference != owner && !reference.IsZero() {
			set.Add(reference)
		}
	}
}

// References returns the bodies referenced by owner
func (t *Tracker) References(owner identity.ID) []identity.ID {
	set, ok := t.references.Get(owner)
	if !ok {
		return nil
	}
	return set.ToSlice()
}

// Referencers returns the bodies referencing target
func (t *Tracker) Referencers(target identity.ID) []identity.ID {
	var referencers []identity.ID
	t.references.Range(func(owner identity.ID, set goset.Set[identity.ID]) {
		if set.Contains(target) {
			referencers = append(referencers, owner)
		}
	})
	return referencers
}

// IsReferenced returns true when any body references target
func (t *Tracker) IsReferenced(target identity.ID) bool {
	return len(t.Referencers(target)) > 0
}

// Forget removes a body from the graph, with the references it held and
// the references held on it.
func (t *Tracker) Forget(id identity.ID) {
	t.references.Delete(id)
	t.references.Range(func(_ identity.ID, set goset.Set[identity.ID]) {
		set.Remove(id)
	})
}

// Reachable returns the bodies reachable from the given roots, roots included
func (t *Tracker) Reachable(roots ...identity.ID) goset.Set[identity.ID] {
	reachable := goset.NewThreadUnsafeSet[identity.ID]()
	pending := append([]identity.ID(nil), roots...)
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if !reachable.Add(current) {
			continue
		}

		if set, ok := t.references.Get(current); ok {
			pending = append(pending, set.ToSlice()...)
		}
	}
	return reachable
}

// Sweep terminates the active bodies of the store that cannot be reached
// from the roots, that have no request waiting and that serve nothing. It
// returns the identifiers of the collected bodies.
func (t *Tracker) Sweep(ctx context.Context, store *body.Store, roots ...identity.ID) ([]identity.ID, error) {
	reachable := t.Reachable(roots...)

	var (
		collected []identity.ID
		err       error
	)

	for _, b := range store.Bodies() {
		if reachable.Contains(b.ID()) || !b.IsActive() || b.QueueLength() > 0 || b.IsServing() {
			continue
		}

		if e := b.Terminate(ctx); e != nil {
			err = multierr.Append(err, e)
			continue
		}

		t.Forget(b.ID())
		collected = append(collected, b.ID())
		t.logger.Debugf("body=(%s) collected", b.ID())
	}
	return collected, err
}
