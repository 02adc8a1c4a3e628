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
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
	imetric "github.com/tochemey/goactive/internal/metric"
	"github.com/tochemey/goactive/internal/shardedmap"
	"github.com/tochemey/goactive/internal/xsync"
	"github.com/tochemey/goactive/log"
)

// Store holds the bodies of one runtime. It creates them, finds them by
// identifier and resolves bodies living in other runtimes through its
// transport.
type Store struct {
	runtimeName string
	generator   *identity.Generator
	logger      log.Logger

	transport      Transport
	directory      Directory
	security       SecurityHook
	faultTolerance FaultToleranceHook
	tracker        ReferenceTracker

	meterProvider metric.MeterProvider
	metric        *imetric.BodyMetric

	futureTimeout   time.Duration
	shutdownTimeout time.Duration

	bodies     *shardedmap.Map[identity.ID, *Body]
	halfBodies *shardedmap.Map[identity.ID, *HalfBody]
	forwarders *shardedmap.Map[identity.ID, *Forwarder]
	location   *LocationTable
	// peers are stores of the same process reachable without a transport
	peers *xsync.Map[string, *Store]

	closed *atomic.Bool
}

// NewStore creates a Store
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		logger:          log.DefaultLogger,
		futureTimeout:   DefaultFutureTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		bodies:          shardedmap.New[identity.ID, *Body](identity.ID.Hash),
		halfBodies:      shardedmap.New[identity.ID, *HalfBody](identity.ID.Hash),
		forwarders:      shardedmap.New[identity.ID, *Forwarder](identity.ID.Hash),
		location:        NewLocationTable(),
		peers:           xsync.NewMap[string, *Store](),
		closed:          atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(s)
	}

	s.generator = identity.NewGenerator(s.runtimeName)
	s.runtimeName = s.generator.Runtime()

	var telemetryOpts []imetric.Option
	if s.meterProvider != nil {
		telemetryOpts = append(telemetryOpts, imetric.WithMeterProvider(s.meterProvider))
	}

	bodyMetric, err := imetric.NewBodyMetric(imetric.New(telemetryOpts...).Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create the body metrics: %w", err)
	}
	s.metric = bodyMetric
	return s, nil
}

// RuntimeName returns the name stamped in the identifiers of the store
func (s *Store) RuntimeName() string {
	return s.runtimeName
}

// Logger returns the store logger
func (s *Store) Logger() log.Logger {
	return s.logger
}

// Location returns the table of known remote and migrated bodies
func (s *Store) Location() *LocationTable {
	return s.location
}

// NewBody creates an unstarted body serving requests on target
func (s *Store) NewBody(target Invoker, opts ...Option) (*Body, error) {
	if target == nil {
		return nil, gerrors.ErrUndefinedTarget
	}

	if s.closed.Load() {
		return nil, gerrors.ErrTerminated
	}
	return newBody(s, target, opts...), nil
}

// Spawn creates and starts a body serving requests on target
func (s *Store) Spawn(ctx context.Context, target Invoker, opts ...Option) (*Body, error) {
	b, err := s.NewBody(target, opts...)
	if err != nil {
		return nil, err
	}

	if err := b.Start(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// NewHalfBody creates a half-body. Release it once done with it.
func (s *Store) NewHalfBody() (*HalfBody, error) {
	if s.closed.Load() {
		return nil, gerrors.ErrTerminated
	}

	half := newHalfBody(s)
	s.halfBodies.Store(half.id, half)
	return half, nil
}

// WithContext returns a context carrying a body context. When ctx already
// carries one it is returned as is. Otherwise a half-body is created and the
// returned function releases it.
func (s *Store) WithContext(ctx context.Context) (context.Context, *Context, func()) {
	if current, ok := ContextFrom(ctx); ok {
		return ctx, current, func() {}
	}

	half := newHalfBody(s)
	s.halfBodies.Store(half.id, half)
	c := &Context{store: s, owner: half.endpoint}
	return withContext(ctx, c), c, func() {
		half.Release(context.Background())
	}
}

// Lookup returns the local handle registered under id: a body, a half-body
// or the forwarder left by a migrated body.
func (s *Store) Lookup(id identity.ID) (Handle, bool) {
	if b, ok := s.bodies.Load(id); ok {
		return b, true
	}

	if half, ok := s.halfBodies.Load(id); ok {
		return half, true
	}

	if forwarder, ok := s.forwarders.Load(id); ok {
		return forwarder, true
	}
	return nil, false
}

// Body returns the local body registered under id
func (s *Store) Body(id identity.ID) (*Body, bool) {
	return s.bodies.Load(id)
}

// Bodies returns the local bodies
func (s *Store) Bodies() []*Body {
	return s.bodies.Values()
}

// HalfBodyCount returns the number of half-bodies not released yet
func (s *Store) HalfBodyCount() int {
	return s.halfBodies.Len()
}

// Forwarder returns the forwarder left by a body that migrated away
func (s *Store) Forwarder(id identity.ID) (*Forwarder, bool) {
	return s.forwarders.Load(id)
}

// Link makes the bodies of other reachable from s without a transport, and
// the other way around. Stores are linked when a body migrates between them.
func (s *Store) Link(other *Store) {
	if other == nil || other == s {
		return
	}
	s.peers.Set(other.runtimeName, other)
	other.peers.Set(s.runtimeName, s)
}

// Resolve returns a handle to the body identified by id. Local bodies are
// looked up first, then linked stores and the location table. Otherwise the
// address, given or found in the directory, is dialed through the transport.
func (s *Store) Resolve(ctx context.Context, id identity.ID, address string) (Handle, error) {
	if handle, ok := s.Lookup(id); ok {
		return handle, nil
	}

	for _, peer := range s.peers.Values() {
		if handle, ok := peer.Lookup(id); ok {
			return handle, nil
		}
	}

	if handle, ok := s.location.Lookup(id); ok {
		return handle, nil
	}

	if s.transport == nil {
		return nil, gerrors.NewErrBodyNotFound(id.String())
	}

	if address == "" && s.directory != nil {
		found, err := s.directory.Lookup(ctx, id)
		if err != nil {
			return nil, errors.Join(gerrors.NewErrBodyNotFound(id.String()), err)
		}
		address = found
	}

	if address == "" || address == s.transport.Address() {
		return nil, gerrors.NewErrBodyNotFound(id.String())
	}

	handle, err := s.transport.Dial(ctx, address, id)
	if err != nil {
		return nil, err
	}

	s.location.Update(id, handle)
	return handle, nil
}

// Shutdown terminates every body of the store and waits for their service
// loops to exit, within the shutdown timeout.
func (s *Store) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	var (
		mu  sync.Mutex
		err error
	)

	eg := new(errgroup.Group)
	for _, b := range s.bodies.Values() {
		eg.Go(func() error {
			if e := b.Terminate(ctx); e != nil {
				mu.Lock()
				err = multierr.Append(err, e)
				mu.Unlock()
			}

			select {
			case <-b.Done():
				return nil
			case <-ctx.Done():
				return fmt.Errorf("body=(%s) did not stop: %w", b.display(), ctx.Err())
			}
		})
	}

	err = multierr.Append(err, eg.Wait())

	for _, half := range s.halfBodies.Values() {
		half.Release(ctx)
	}

	s.forwarders.Reset()
	s.location.reset()
	for _, peer := range s.peers.Values() {
		peer.peers.Delete(s.runtimeName)
	}
	s.peers.Reset()

	if err != nil {
		s.logger.Errorf("store=(%s) shutdown failed: %v", s.runtimeName, err)
		return err
	}

	s.logger.Infof("store=(%s) successfully shutdown", s.runtimeName)
	return nil
}

func (s *Store) register(ctx context.Context, b *Body) error {
	if s.closed.Load() {
		return gerrors.ErrTerminated
	}

	if existing, loaded := s.bodies.LoadOrStore(b.id, b); loaded && existing != b {
		return gerrors.ErrAlreadyActive
	}

	s.forwarders.Delete(b.id)
	s.location.Remove(b.id)

	if s.directory != nil && s.transport != nil {
		if err := s.directory.Register(ctx, b.id, s.transport.Address()); err != nil {
			s.bodies.CompareAndDelete(b.id, func(v *Body) bool { return v == b })
			return err
		}
	}
	return nil
}

func (s *Store) unregister(ctx context.Context, b *Body) {
	if !s.bodies.CompareAndDelete(b.id, func(v *Body) bool { return v == b }) {
		return
	}

	if s.directory != nil && s.transport != nil {
		if err := s.directory.Remove(ctx, b.id); err != nil {
			s.logger.Warnf("failed to remove body=(%s) from the directory: %v", b.id, err)
		}
	}
}

func (s *Store) unregisterHalfBody(_ context.Context, half *HalfBody) {
	s.halfBodies.CompareAndDelete(half.id, func(v *HalfBody) bool { return v == half })
}

func (s *Store) address() string {
	if s.transport == nil {
		return ""
	}
	return s.transport.Address()
}

func (s *Store) sealRequest(ctx context.Context, logger log.Logger, request *Request) error {
	if s.security == nil {
		return nil
	}

	err := s.security.SealRequest(ctx, request)
	if errors.Is(err, gerrors.ErrSecurityNotAvailable) {
		logger.Debugf("request method=(%s) sent in clear: %v", request.Method(), err)
		return nil
	}
	return err
}

func (s *Store) openRequest(ctx context.Context, request *Request) error {
	if !request.Sealed {
		return nil
	}

	if s.security == nil {
		return gerrors.ErrSecurityNotAvailable
	}
	return s.security.OpenRequest(ctx, request)
}

func (s *Store) sealReply(ctx context.Context, logger log.Logger, reply *Reply) error {
	if s.security == nil {
		return nil
	}

	err := s.security.SealReply(ctx, reply)
	if errors.Is(err, gerrors.ErrSecurityNotAvailable) {
		logger.Debugf("reply of future=(%s) sent in clear: %v", reply.FutureID, err)
		return nil
	}
	return err
}

func (s *Store) openReply(ctx context.Context, reply *Reply) error {
	if !reply.Sealed {
		return nil
	}

	if s.security == nil {
		return gerrors.ErrSecurityNotAvailable
	}
	return s.security.OpenReply(ctx, reply)
}

func (s *Store) observe(ctx context.Context, owner identity.ID, references []identity.ID) {
	if s.tracker == nil || len(references) == 0 {
		return
	}
	s.tracker.Observe(ctx, owner, references)
}
