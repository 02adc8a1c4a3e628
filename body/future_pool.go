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
	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/queue"
	"github.com/tochemey/goactive/log"
)

// destination is a body that receives the value of a future by automatic continuation
type destination struct {
	ID      identity.ID
	Address string
}

type continuationEntry struct {
	future       *future.Future
	destinations []destination
}

type continuationJob struct {
	id future.ID
}

// poolState is what a future pool hands over when its body migrates
type poolState struct {
	pending       map[future.ID][]*future.Future
	continuations map[future.ID]*continuationEntry
	parked        map[future.ID]*Reply
}

type deliverFunc func(ctx context.Context, to destination, reply *Reply) error

// futurePool holds the futures of one body that wait for a reply, and the
// futures whose value must be forwarded to other bodies once known.
//
// Several futures may wait on the same identifier: a future received twice
// as an argument, or a future rewired onto a reference it already waits for.
type futurePool struct {
	owner   identity.ID
	logger  log.Logger
	deliver deliverFunc

	mu            sync.Mutex
	closed        bool
	pending       map[future.ID][]*future.Future
	continuations map[future.ID]*continuationEntry
	// parked holds continuation replies that arrived before their future was registered
	parked map[future.ID]*Reply

	jobs       *queue.Queue[continuationJob]
	stop       chan struct{}
	watchers   sync.WaitGroup
	workerDone chan struct{}
}

func newFuturePool(owner identity.ID, logger log.Logger, deliver deliverFunc) *futurePool {
	pool := &futurePool{
		owner:         owner,
		logger:        logger,
		deliver:       deliver,
		pending:       make(map[future.ID][]*future.Future),
		continuations: make(map[future.ID]*continuationEntry),
		parked:        make(map[future.ID]*Reply),
		jobs:          queue.New[continuationJob](),
		stop:          make(chan struct{}),
		workerDone:    make(chan struct{}),
	}
	go pool.run()
	return pool
}

// register makes the bound future wait for the reply addressed to its identifier
func (p *futurePool) register(f *future.Future) error {
	id, bound := f.ID()
	if !bound {
		return gerrors.ErrInvalidRequest
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return gerrors.ErrTerminated
	}
	reply := p.bindLocked(id, f)
	p.mu.Unlock()

	if reply != nil {
		settle(f, reply)
	}
	return nil
}

// registerIncoming returns the local future standing for a future reference
// received in a request or a reply. An existing future waiting on the same
// identifier is reused.
func (p *futurePool) registerIncoming(id future.ID, newFuture func() *future.Future) (*future.Future, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, gerrors.ErrTerminated
	}
	if waiting := p.pending[id]; len(waiting) > 0 {
		p.mu.Unlock()
		return waiting[0], nil
	}

	f := newFuture()
	_ = f.Bind(id)
	reply := p.bindLocked(id, f)
	p.mu.Unlock()

	if reply != nil {
		settle(f, reply)
	}
	return f, nil
}

// unregister removes a future whose request could not be sent
func (p *futurePool) unregister(f *future.Future) {
	id, bound := f.ID()
	if !bound {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	waiting := p.pending[id]
	for i, candidate := range waiting {
		if candidate == f {
			waiting = append(waiting[:i], waiting[i+1:]...)
			break
		}
	}
	if len(waiting) == 0 {
		delete(p.pending, id)
		return
	}
	p.pending[id] = waiting
}

// receive resolves the futures waiting for the reply.
// It returns false when no future matched and the reply was discarded.
func (p *futurePool) receive(reply *Reply) bool {
	p.mu.Lock()
	waiting, ok := p.pending[reply.FutureID]
	if !ok {
		// the value of a future may overtake the reply carrying its reference
		if reply.Continuation && !p.closed {
			p.parked[reply.FutureID] = reply
			p.mu.Unlock()
			return true
		}
		p.mu.Unlock()
		return false
	}
	delete(p.pending, reply.FutureID)

	settled := make(map[*future.Future]*Reply, len(waiting))
	for _, f := range waiting {
		settled[f] = reply
		if ref, isRef := reply.Result.(future.Ref); isRef && reply.Failure == nil {
			settled[f] = p.bindLocked(ref.ID, f)
		}
	}
	p.mu.Unlock()

	for f, final := range settled {
		if final != nil {
			settle(f, final)
		}
	}
	return true
}

// bindLocked makes f wait for the reply addressed to id, consuming parked
// replies along the chain of references. It returns the reply that settles f,
// or nil when f keeps waiting.
func (p *futurePool) bindLocked(id future.ID, f *future.Future) *Reply {
	for {
		reply, ok := p.parked[id]
		if !ok {
			p.pending[id] = append(p.pending[id], f)
			return nil
		}
		delete(p.parked, id)
		ref, isRef := reply.Result.(future.Ref)
		if !isRef || reply.Failure != nil {
			return reply
		}
		id = ref.ID
	}
}

// addContinuation records that the value of f must be forwarded to the given body
func (p *futurePool) addContinuation(f *future.Future, to destination) {
	id, bound := f.ID()
	if !bound {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	entry, ok := p.continuations[id]
	if !ok {
		entry = &continuationEntry{future: f}
		p.continuations[id] = entry
		p.watchers.Add(1)
	}
	entry.destinations = append(entry.destinations, to)
	p.mu.Unlock()

	if !ok {
		go p.watch(id, f)
	}
}

func (p *futurePool) watch(id future.ID, f *future.Future) {
	defer p.watchers.Done()
	select {
	case <-f.Done():
	case <-p.stop:
		if !f.IsResolved() {
			return
		}
	}
	p.jobs.Push(continuationJob{id: id})
}

func (p *futurePool) run() {
	defer close(p.workerDone)
	for {
		job, ok := p.jobs.Wait()
		if !ok {
			return
		}
		p.forward(job.id)
	}
}

func (p *futurePool) forward(id future.ID) {
	p.mu.Lock()
	entry, ok := p.continuations[id]
	delete(p.continuations, id)
	p.mu.Unlock()

	if !ok {
		return
	}

	result := entry.future.Result()
	if result == nil {
		return
	}

	for _, to := range entry.destinations {
		reply := &Reply{
			FutureID:     id,
			Destination:  to.ID,
			Result:       result.Success(),
			Failure:      gerrors.EncodeFailure("", result.Failure()),
			Continuation: true,
		}
		if err := p.deliver(context.Background(), to, reply); err != nil {
			p.logger.Warnf("continuation of future=(%s) to body=(%s) failed: %v", id, to.ID, err)
		}
	}
}

// pendingCount returns the number of identifiers with waiting futures
func (p *futurePool) pendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *futurePool) continuationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.continuations)
}

// close fails every waiting future with err, forwards the continuations
// already due and stops the worker. Subsequent calls are no-ops.
func (p *futurePool) close(err error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pending := p.pending
	p.pending = make(map[future.ID][]*future.Future)
	clear(p.parked)
	p.mu.Unlock()

	for _, waiting := range pending {
		for _, f := range waiting {
			f.Fail(err)
		}
	}

	close(p.stop)
	p.watchers.Wait()
	remaining := p.jobs.CloseRemaining()
	<-p.workerDone
	for _, job := range remaining {
		p.forward(job.id)
	}
}

// detach stops the pool without failing anything and returns its content
func (p *futurePool) detach() poolState {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return poolState{}
	}
	p.closed = true
	state := poolState{
		pending:       p.pending,
		continuations: p.continuations,
		parked:        p.parked,
	}
	p.pending = make(map[future.ID][]*future.Future)
	p.continuations = make(map[future.ID]*continuationEntry)
	p.parked = make(map[future.ID]*Reply)
	p.mu.Unlock()

	close(p.stop)
	p.watchers.Wait()
	// jobs left are still listed in state.continuations and fire again once adopted
	p.jobs.Close()
	<-p.workerDone
	return state
}

// adopt takes over the content of a detached pool
func (p *futurePool) adopt(state poolState) {
	p.mu.Lock()
	for id, waiting := range state.pending {
		p.pending[id] = append(p.pending[id], waiting...)
	}
	for id, reply := range state.parked {
		p.parked[id] = reply
	}
	p.mu.Unlock()

	for _, entry := range state.continuations {
		for _, to := range entry.destinations {
			p.addContinuation(entry.future, to)
		}
	}
}

func settle(f *future.Future, reply *Reply) {
	if reply.Failure != nil {
		f.Fail(reply.Failure.Err())
		return
	}
	f.Resolve(reply.Result)
}
