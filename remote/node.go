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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/codec"
	"github.com/tochemey/goactive/log"
)

// ErrNotStarted is returned when the node is used before Start or after Stop
var ErrNotStarted = errors.New("remote: node is not started")

// ErrNotBound is returned when Start is called before a store has been bound
var ErrNotBound = errors.New("remote: no store bound to the node")

// ErrStopped is returned when Start is called on a stopped node
var ErrStopped = errors.New("remote: node is stopped")

// Node carries requests and replies between stores hosted by different
// processes. Every node subscribes to its own NATS subject and the subject
// is the transport address of the bodies it hosts.
type Node struct {
	mu sync.Mutex

	config *Config
	logger log.Logger
	frames *frames
	store  *body.Store

	conn         *nats.Conn
	subscription *nats.Subscription
	started      *atomic.Bool
	stopped      *atomic.Bool

	// inflight tracks the handlers still admitting a message
	inflight sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// enforce compilation error
var _ body.Transport = (*Node)(nil)

// NewNode creates a Node. The node must be bound to a store and started
// before it can carry messages.
func NewNode(config *Config, logger log.Logger) (*Node, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.DefaultLogger
	}

	wireCodec, err := codec.New(config.Types...)
	if err != nil {
		return nil, err
	}

	frames, err := newFrames(wireCodec, config.Compression, config.CompressionThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create the frame coders: %w", err)
	}

	return &Node{
		config:  config,
		logger:  logger.With("node", config.Address()),
		frames:  frames,
		started: atomic.NewBool(false),
		stopped: atomic.NewBool(false),
	}, nil
}

// Address returns the subject the node listens on
func (n *Node) Address() string {
	return n.config.Address()
}

// Bind sets the store whose bodies receive the incoming messages
func (n *Node) Bind(store *body.Store) {
	n.mu.Lock()
	n.store = store
	n.mu.Unlock()
}

// Start connects to the NATS server and subscribes to the node address.
// A stopped node cannot be started again.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started.Load() {
		return nil
	}

	if n.stopped.Load() {
		return ErrStopped
	}

	if n.store == nil {
		return ErrNotBound
	}

	var conn *nats.Conn
	retrier := retry.NewRetrier(n.config.MaxRetries, 100*time.Millisecond, n.config.ReconnectWait)
	err := retrier.RunContext(ctx, func(_ context.Context) error {
		var err error
		conn, err = nats.Connect(n.config.URL,
			nats.Name(n.config.Address()),
			nats.ReconnectWait(n.config.ReconnectWait),
			nats.MaxReconnects(-1))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", n.config.URL, err)
	}

	n.ctx, n.cancel = context.WithCancel(context.WithoutCancel(ctx))
	subscription, err := conn.Subscribe(n.Address(), n.handle)
	if err != nil {
		n.cancel()
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", n.Address(), err)
	}

	if err := conn.FlushTimeout(n.config.RequestTimeout); err != nil {
		n.cancel()
		conn.Close()
		return err
	}

	n.conn = conn
	n.subscription = subscription
	n.started.Store(true)
	n.logger.Infof("node listening on %s", n.Address())
	return nil
}

// Stop unsubscribes the node, waits for the messages being admitted and
// closes the connection. It is safe to call Stop more than once.
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started.CompareAndSwap(true, false) {
		return nil
	}
	n.stopped.Store(true)

	var err error
	if n.subscription.IsValid() {
		err = n.subscription.Unsubscribe()
	}

	n.cancel()
	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}

	n.conn.Close()
	n.frames.close()
	n.logger.Infof("node stopped listening on %s", n.Address())
	return err
}

// Dial returns a handle on the body id hosted by the node at address
func (n *Node) Dial(_ context.Context, address string, id identity.ID) (body.Handle, error) {
	if address == "" {
		return nil, gerrors.NewErrBodyNotFound(id.String())
	}
	return &proxy{node: n, address: address, id: id}, nil
}

// send delivers the envelope and waits for the remote acknowledgement
func (n *Node) send(ctx context.Context, address string, env *envelope) (body.Status, error) {
	if !n.started.Load() {
		return body.StatusNonFT, gerrors.NewErrDeliveryFailure(ErrNotStarted)
	}

	frame, err := n.frames.encode(env)
	if err != nil {
		return body.StatusNonFT, gerrors.NewErrDeliveryFailure(err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.config.RequestTimeout)
	defer cancel()

	msg, err := n.conn.RequestWithContext(ctx, address, frame)
	if err != nil {
		return body.StatusNonFT, gerrors.NewErrDeliveryFailure(err)
	}

	out := new(ack)
	if err := n.frames.decode(msg.Data, out); err != nil {
		return body.StatusNonFT, gerrors.NewErrDeliveryFailure(err)
	}
	return out.Status, out.err()
}

// handle is the subscription callback. Admission runs on its own goroutine
// so that an immediate-service call does not hold the subscription.
func (n *Node) handle(msg *nats.Msg) {
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		status, err := n.admit(n.ctx, msg.Data)
		if err != nil {
			n.logger.Debugf("message admission failed: %v", err)
		}

		frame, encodeErr := n.frames.encode(newAck(status, err))
		if encodeErr != nil {
			n.logger.Errorf("failed to encode the acknowledgement: %v", encodeErr)
			return
		}

		if err := msg.Respond(frame); err != nil {
			n.logger.Warnf("failed to acknowledge a message: %v", err)
		}
	}()
}

func (n *Node) admit(ctx context.Context, frame []byte) (body.Status, error) {
	env := new(envelope)
	if err := n.frames.decode(frame, env); err != nil {
		return body.StatusNonFT, err
	}

	handle, ok := n.store.Lookup(env.Destination)
	if !ok {
		return body.StatusNonFT, gerrors.NewErrBodyNotFound(env.Destination.String())
	}

	switch env.Kind {
	case requestKind:
		if env.Request == nil {
			return body.StatusNonFT, gerrors.ErrInvalidRequest
		}
		return handle.ReceiveRequest(ctx, env.Request)
	case replyKind:
		if env.Reply == nil {
			return body.StatusNonFT, gerrors.ErrInvalidReply
		}
		return handle.ReceiveReply(ctx, env.Reply)
	default:
		return body.StatusNonFT, fmt.Errorf("remote: unknown envelope kind %d", env.Kind)
	}
}
