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
	"errors"
	"fmt"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goactive/errors"
)

// State is the lifecycle state of a body
type State uint32

const (
	// Unstarted is the state of a body that has not been started yet
	Unstarted State = iota
	// Active is the state of a body serving requests
	Active
	// Terminated is the final state of a body
	Terminated
	// Migrated is the state of a body that moved to another store.
	// It only forwards what it receives.
	Migrated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Active:
		return "active"
	case Terminated:
		return "terminated"
	case Migrated:
		return "migrated"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

const (
	migrationNone int32 = iota
	migrationRequested
	migrationParked
)

var errForwarded = errors.New("body has been migrated")

// Body is the runtime part of an active object. It owns the request queue
// and the single goroutine serving the requests of its target one at a time.
type Body struct {
	*endpoint

	name      string
	target    Invoker
	queueHint int64
	// arrived is set on a body created by a migration, its target is already active
	arrived bool

	state     *atomic.Uint32
	starting  *atomic.Bool
	migration *atomic.Int32
	serving   *atomic.Int32

	barrier   *barrier
	queue     *requestQueue
	immediate goset.Set[string]
	// marker is queued to stop the service loop between two requests
	marker *Request

	mu        sync.RWMutex
	forwarder *Forwarder

	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ Handle      = (*Body)(nil)
	_ Addressable = (*Body)(nil)
)

func newBody(store *Store, target Invoker, opts ...Option) *Body {
	b := &Body{
		endpoint:  newEndpoint(store.generator.Next(), store, nil),
		target:    target,
		queueHint: DefaultQueueHint,
		state:     atomic.NewUint32(uint32(Unstarted)),
		starting:  atomic.NewBool(false),
		migration: atomic.NewInt32(migrationNone),
		serving:   atomic.NewInt32(0),
		barrier:   newBarrier(),
		immediate: goset.NewSet[string](),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt.Apply(b)
	}

	if b.logger == nil {
		b.logger = store.logger.With("body", b.id.String())
	}

	b.marker = &Request{Call: &MethodCall{Name: "_migrateAO"}, Sender: b.id, Destination: b.id}
	return b
}

// Name returns the name of the body
func (b *Body) Name() string {
	return b.name
}

// Target returns the object the body serves requests on
func (b *Body) Target() Invoker {
	return b.target
}

// Address returns the transport address of the store holding the body
func (b *Body) Address() string {
	return b.store.address()
}

// State returns the lifecycle state of the body
func (b *Body) State() State {
	return State(b.state.Load())
}

// IsActive returns true when the body serves requests
func (b *Body) IsActive() bool {
	return b.State() == Active
}

// Done is closed once the service loop has exited
func (b *Body) Done() <-chan struct{} {
	return b.done
}

// QueueLength returns the number of requests waiting to be served
func (b *Body) QueueLength() int {
	if b.State() != Active || b.queue == nil {
		return 0
	}
	return b.queue.len()
}

// IsServing returns true while the body serves a request or a message is
// inside its barrier.
func (b *Body) IsServing() bool {
	return b.serving.Load() > 0 || b.barrier.count() > 0
}

// Start activates the body: the request queue and the future pool are
// installed, the body is registered in its store and the service loop starts.
func (b *Body) Start(ctx context.Context) error {
	return b.start(ctx, nil, poolState{})
}

func (b *Body) start(ctx context.Context, preload []*Request, adopted poolState) error {
	if !b.starting.CompareAndSwap(false, true) {
		if b.State() == Terminated {
			return gerrors.ErrTerminated
		}
		return gerrors.ErrAlreadyActive
	}

	if b.State() != Unstarted {
		b.markDone()
		return gerrors.ErrTerminated
	}

	b.queue = newRequestQueue(b.queueHint)
	for _, request := range preload {
		_ = b.queue.put(request)
	}

	b.pool = newFuturePool(b.id, b.logger, b.deliver)
	b.pool.adopt(adopted)

	if !b.state.CompareAndSwap(uint32(Unstarted), uint32(Active)) {
		b.queue.dispose()
		b.pool.close(gerrors.ErrTerminated)
		b.markDone()
		return gerrors.ErrTerminated
	}

	if err := b.store.register(ctx, b); err != nil {
		_ = b.Terminate(ctx)
		b.markDone()
		return err
	}

	go b.run(context.WithoutCancel(ctx))
	b.logger.Infof("body=(%s) started", b.display())
	return nil
}

// ReceiveRequest accepts a request. Depending on the method it is either
// queued for the service loop or served at once by the calling goroutine.
func (b *Body) ReceiveRequest(ctx context.Context, request *Request) (Status, error) {
	if err := request.validate(); err != nil {
		return StatusNonFT, err
	}

	if forwarder := b.forwarding(); forwarder != nil {
		return forwarder.ReceiveRequest(ctx, request)
	}

	if err := b.checkState(); err != nil {
		return StatusNonFT, err
	}

	status := StatusNonFT
	if hook := b.store.faultTolerance; hook != nil {
		hookStatus, err := hook.OnReceiveRequest(ctx, b.id, request)
		if err != nil {
			return hookStatus, err
		}
		if hookStatus == StatusIgnored {
			return hookStatus, nil
		}
		status = hookStatus
	}

	immediate := false
	err := b.barrier.admit(ctx, func() error {
		if b.forwarding() != nil {
			return errForwarded
		}

		if err := b.checkState(); err != nil {
			return err
		}

		if err := b.store.openRequest(ctx, request); err != nil {
			return err
		}

		if request.Call == nil {
			return gerrors.ErrInvalidRequest
		}

		b.clock.observe(request.Timestamp)
		for i, arg := range request.Call.Args {
			value, err := b.incoming(arg)
			if err != nil {
				return err
			}
			request.Call.Args[i] = value
		}

		immediate = b.isImmediate(request.Call)
		if immediate {
			return nil
		}
		return b.queue.put(request)
	})

	if err != nil {
		b.dropRequest(ctx, request)
		if errors.Is(err, errForwarded) {
			return b.forwarding().ReceiveRequest(ctx, request)
		}
		return status, err
	}

	b.store.observe(ctx, b.id, referencesOf(request.Sender, request.Call.Args...))

	if !immediate {
		_ = b.barrier.exit()
		return status, nil
	}

	defer func() {
		_ = b.barrier.exit()
	}()

	b.serve(context.WithoutCancel(ctx), request, true)
	return StatusImmediateService, nil
}

// ReceiveReply accepts the reply to a request sent by the body, or the value
// of a future it holds.
func (b *Body) ReceiveReply(ctx context.Context, reply *Reply) (Status, error) {
	if err := reply.validate(); err != nil {
		return StatusNonFT, err
	}

	if forwarder := b.forwarding(); forwarder != nil {
		return forwarder.ReceiveReply(ctx, reply)
	}

	if err := b.checkState(); err != nil {
		return StatusNonFT, err
	}

	err := b.barrier.admit(ctx, func() error {
		if b.forwarding() != nil {
			return errForwarded
		}
		return b.checkState()
	})

	if errors.Is(err, errForwarded) {
		return b.forwarding().ReceiveReply(ctx, reply)
	}

	if err != nil {
		return StatusNonFT, err
	}

	defer func() {
		_ = b.barrier.exit()
	}()

	return b.admitReply(ctx, reply)
}

// Terminate stops the body. Queued two-way requests are answered with
// errors.ErrTerminated, the future pool is discarded and the body leaves its
// store. It does not wait for the request being served and can be called
// from a method served by the body itself. Subsequent calls are no-ops.
func (b *Body) Terminate(ctx context.Context) error {
	var previous State
	for {
		previous = b.State()
		if previous == Terminated || previous == Migrated {
			return nil
		}
		if b.state.CompareAndSwap(uint32(previous), uint32(Terminated)) {
			break
		}
	}

	if previous == Unstarted {
		b.barrier.terminate()
		if !b.starting.Load() {
			b.markDone()
		}
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	for _, request := range b.queue.dispose() {
		if request == b.marker {
			continue
		}
		b.dropRequest(ctx, request)
		if request.OneWay {
			continue
		}
		b.sendReply(ctx, request, b.failureReply(request, gerrors.ErrTerminated))
	}

	b.pool.close(gerrors.ErrTerminated)
	b.barrier.terminate()
	b.store.unregister(ctx, b)
	b.logger.Infof("body=(%s) terminated", b.display())
	return nil
}

// SetImmediateService marks a method to be served by the caller's goroutine
func (b *Body) SetImmediateService(method string) {
	b.immediate.Add(method)
}

// RemoveImmediateService unmarks a method set by SetImmediateService
func (b *Body) RemoveImmediateService(method string) {
	b.immediate.Remove(method)
}

// IsImmediateService returns true when the method is served immediately
func (b *Body) IsImmediateService(method string) bool {
	return b.immediate.Contains(method)
}

// BlockCommunication closes the barrier: incoming requests and replies wait
// until AcceptCommunication is called.
func (b *Body) BlockCommunication() {
	b.barrier.close()
}

// AcceptCommunication opens the barrier closed by BlockCommunication
func (b *Body) AcceptCommunication() {
	b.barrier.open()
}

// Enter waits for the barrier to be open and enters it.
// Every successful Enter must be paired with an Exit.
func (b *Body) Enter(ctx context.Context) error {
	return b.barrier.admit(ctx, nil)
}

// Exit leaves the barrier. It fails with errors.ErrBarrierMisuse when no
// matching Enter happened.
func (b *Body) Exit() error {
	return b.barrier.exit()
}

func (b *Body) checkState() error {
	switch b.State() {
	case Active, Migrated:
		// a migrated body relays what it admits once its barrier reopens
		return nil
	case Unstarted:
		return gerrors.ErrNotActive
	default:
		return gerrors.ErrTerminated
	}
}

func (b *Body) isImmediate(call *MethodCall) bool {
	if _, ok := b.target.(ImmediateInvoker); !ok {
		return false
	}
	return call.Immediate || b.immediate.Contains(call.Name)
}

func (b *Body) forwarding() *Forwarder {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.forwarder
}

func (b *Body) forwardTo(forwarder *Forwarder) {
	b.mu.Lock()
	b.forwarder = forwarder
	b.mu.Unlock()
}

func (b *Body) markDone() {
	b.doneOnce.Do(func() {
		close(b.done)
	})
}

func (b *Body) display() string {
	if b.name != "" {
		return b.name
	}
	return b.id.String()
}
