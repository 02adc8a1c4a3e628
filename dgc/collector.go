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

package dgc

import (
	"context"
	"sync"
	"time"

	"github.com/tochemey/goactive/body"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/log"
)

// Collector sweeps a store at a fixed interval
type Collector struct {
	tracker  *Tracker
	store    *body.Store
	interval time.Duration
	roots    func() []identity.ID
	logger   log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewCollector creates a Collector sweeping store every interval. roots is
// called before every sweep and returns the bodies that must survive it.
func NewCollector(tracker *Tracker, store *body.Store, interval time.Duration, roots func() []identity.ID) *Collector {
	if interval <= 0 {
		panic("dgc: interval must be greater than zero")
	}
	return &Collector{
		tracker:  tracker,
		store:    store,
		interval: interval,
		roots:    roots,
		logger:   tracker.logger,
	}
}

// Start begins sweeping. Calling Start on a running collector does nothing.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}

	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.loop(c.stopCh, c.doneCh)
}

// Stop ends sweeping and waits for a sweep in progress to complete
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}

	c.running = false
	close(c.stopCh)
	<-c.doneCh
}

// Running reports whether the collector is sweeping
func (c *Collector) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Collector) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var roots []identity.ID
			if c.roots != nil {
				roots = c.roots()
			}

			collected, err := c.tracker.Sweep(context.Background(), c.store, roots...)
			if err != nil {
				c.logger.Warnf("sweep failed: %v", err)
			}
			if len(collected) > 0 {
				c.logger.Infof("%d bodies collected", len(collected))
			}
		case <-stopCh:
			return
		}
	}
}
