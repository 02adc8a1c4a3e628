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
	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/tochemey/goactive/errors"
)

// requestQueue is the unbounded FIFO of requests waiting for the service loop
type requestQueue struct {
	underlying *gods.Queue
}

func newRequestQueue(hint int64) *requestQueue {
	return &requestQueue{underlying: gods.New(hint)}
}

// put appends the request. It fails with errors.ErrTerminated once disposed.
func (q *requestQueue) put(request *Request) error {
	if err := q.underlying.Put(request); err != nil {
		return gerrors.ErrTerminated
	}
	return nil
}

// get blocks until a request is available or the queue is disposed
func (q *requestQueue) get() (*Request, error) {
	items, err := q.underlying.Get(1)
	if err != nil {
		return nil, err
	}
	return items[0].(*Request), nil
}

// dispose destroys the queue and returns the requests it still held.
// Goroutines blocked in get are released.
func (q *requestQueue) dispose() []*Request {
	items := q.underlying.Dispose()
	requests := make([]*Request, 0, len(items))
	for _, item := range items {
		requests = append(requests, item.(*Request))
	}
	return requests
}

func (q *requestQueue) len() int {
	return int(q.underlying.Len())
}

func (q *requestQueue) isDisposed() bool {
	return q.underlying.Disposed()
}
