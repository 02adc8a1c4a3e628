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

// Package ftlog provides a fault tolerance hook journaling the requests a
// body has admitted and not served yet, so that they can be replayed after a
// crash.
package ftlog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	"github.com/tochemey/goactive/body"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/codec"
	"github.com/tochemey/goactive/log"
)

const (
	fileMode       os.FileMode = 0o600
	requestsBucket             = "requests"
	indexBucket                = "index"
)

var (
	defaultTimeout = 5 * time.Second
	// ErrClosed is returned once the journal has been closed
	ErrClosed = errors.New("ftlog: journal is closed")
)

// Journal is a body.FaultToleranceHook backed by bbolt.
//
// Every request received by a body is written before it is admitted and
// removed once it has been served. Each body has its own bucket in which
// entries are keyed by the bucket sequence, so Pending lists requests in the
// order they were received. A request received twice, identified by its
// sender and sequence number, is ignored while the first copy is pending.
type Journal struct {
	db      *bbolt.DB
	path    string
	codec   *codec.Codec
	logger  log.Logger
	timeout time.Duration
	closed  *atomic.Bool
}

var _ body.FaultToleranceHook = (*Journal)(nil)

// Open opens or creates the journal stored at path
func Open(path string, opts ...Option) (*Journal, error) {
	journal := &Journal{
		path:    path,
		codec:   codec.Default(),
		logger:  log.DiscardLogger,
		timeout: defaultTimeout,
		closed:  atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(journal)
	}

	db, err := bbolt.Open(path, fileMode, &bbolt.Options{Timeout: journal.timeout, NoGrowSync: true})
	if err != nil {
		return nil, fmt.Errorf("ftlog: opening boltdb: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(requestsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(indexBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ftlog: initializing boltdb buckets: %w", err)
	}

	journal.db = db
	return journal, nil
}

// Path returns the location of the journal file
func (j *Journal) Path() string {
	return j.path
}

// OnReceiveRequest journals the request
func (j *Journal) OnReceiveRequest(_ context.Context, receiver identity.ID, request *body.Request) (body.Status, error) {
	if j.closed.Load() {
		return body.StatusNonFT, ErrClosed
	}

	data, err := j.codec.Marshal(request)
	if err != nil {
		return body.StatusNonFT, fmt.Errorf("ftlog: encoding request: %w", err)
	}

	duplicate := false
	err = j.db.Update(func(tx *bbolt.Tx) error {
		index, err := tx.Bucket([]byte(indexBucket)).CreateBucketIfNotExists(receiverKey(receiver))
		if err != nil {
			return err
		}

		requestKey := []byte(request.FutureID().String())
		if index.Get(requestKey) != nil {
			duplicate = true
			return nil
		}

		requests, err := tx.Bucket([]byte(requestsBucket)).CreateBucketIfNotExists(receiverKey(receiver))
		if err != nil {
			return err
		}

		next, err := requests.NextSequence()
		if err != nil {
			return err
		}

		entryKey := sequenceKey(next)
		if err := requests.Put(entryKey, data); err != nil {
			return err
		}
		return index.Put(requestKey, entryKey)
	})

	if err != nil {
		return body.StatusNonFT, err
	}

	if duplicate {
		j.logger.Warnf("duplicate request=(%s) for body=(%s) ignored", request.FutureID(), receiver)
		return body.StatusIgnored, nil
	}
	return body.StatusNonFT, nil
}

// OnServeRequestBefore does nothing: the request stays journaled while served
func (j *Journal) OnServeRequestBefore(context.Context, identity.ID, *body.Request) (body.Status, error) {
	return body.StatusNonFT, nil
}

// OnServeRequestAfter removes the served request from the journal
func (j *Journal) OnServeRequestAfter(_ context.Context, receiver identity.ID, request *body.Request) (body.Status, error) {
	if j.closed.Load() {
		return body.StatusNonFT, ErrClosed
	}

	return body.StatusNonFT, j.db.Update(func(tx *bbolt.Tx) error {
		return remove(tx, receiver, []byte(request.FutureID().String()))
	})
}

// OnSendReply does nothing
func (j *Journal) OnSendReply(context.Context, identity.ID, *body.Reply) (body.Status, error) {
	return body.StatusNonFT, nil
}

// OnDropRequest removes a request the receiver will not serve, so that a
// retransmission is admitted again and Replay does not deliver it.
func (j *Journal) OnDropRequest(_ context.Context, receiver identity.ID, request *body.Request) error {
	if j.closed.Load() {
		return ErrClosed
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		return remove(tx, receiver, []byte(request.FutureID().String()))
	})
}

// Pending returns the requests of the given body that were received and not
// served, in the order they were received.
func (j *Journal) Pending(_ context.Context, receiver identity.ID) ([]*body.Request, error) {
	if j.closed.Load() {
		return nil, ErrClosed
	}

	var requests []*body.Request
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(requestsBucket)).Bucket(receiverKey(receiver))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, value []byte) error {
			request := new(body.Request)
			if err := j.codec.Unmarshal(value, request); err != nil {
				return err
			}
			requests = append(requests, request)
			return nil
		})
	})
	return requests, err
}

// Replay removes the pending requests of the body identified by to.ID() and
// delivers them to it again. It returns the number of requests delivered.
func (j *Journal) Replay(ctx context.Context, to body.Handle) (int, error) {
	requests, err := j.Pending(ctx, to.ID())
	if err != nil {
		return 0, err
	}

	if err := j.db.Update(func(tx *bbolt.Tx) error {
		for _, request := range requests {
			if err := remove(tx, to.ID(), []byte(request.FutureID().String())); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return 0, err
	}

	for i, request := range requests {
		if _, err := to.ReceiveRequest(ctx, request); err != nil {
			return i, fmt.Errorf("ftlog: replaying request=(%s): %w", request.FutureID(), err)
		}
	}
	return len(requests), nil
}

// Close closes the journal file
func (j *Journal) Close() error {
	if !j.closed.CompareAndSwap(false, true) {
		return nil
	}
	return j.db.Close()
}

func remove(tx *bbolt.Tx, receiver identity.ID, requestKey []byte) error {
	index := tx.Bucket([]byte(indexBucket)).Bucket(receiverKey(receiver))
	if index == nil {
		return nil
	}

	entryKey := index.Get(requestKey)
	if entryKey == nil {
		return nil
	}

	// bbolt values are only valid during the transaction
	entryKey = append([]byte(nil), entryKey...)
	if err := index.Delete(requestKey); err != nil {
		return err
	}

	requests := tx.Bucket([]byte(requestsBucket)).Bucket(receiverKey(receiver))
	if requests == nil {
		return nil
	}
	return requests.Delete(entryKey)
}

func receiverKey(receiver identity.ID) []byte {
	return []byte(receiver.String())
}

func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}
