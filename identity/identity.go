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

package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

// ID identifies a body. It is unique across runtimes, never reused and kept
// unchanged when the body migrates.
//
// Runtime names the runtime (process) that created the identifier, Counter is
// the creation rank within that runtime and Timestamp is the start time of the
// generator in nanoseconds, so that a restarted runtime reusing the same name
// does not collide with its previous incarnation.
type ID struct {
	Runtime   string `cbor:"1,keyasint"`
	Counter   uint64 `cbor:"2,keyasint"`
	Timestamp int64  `cbor:"3,keyasint"`
}

// NoID is the zero identifier
var NoID = ID{}

// IsZero reports whether the identifier is unset
func (id ID) IsZero() bool {
	return id == NoID
}

// String returns the textual form runtime/counter/timestamp
func (id ID) String() string {
	return id.Runtime + "/" + strconv.FormatUint(id.Counter, 10) + "/" + strconv.FormatInt(id.Timestamp, 10)
}

// Hash returns the xxh3 hash of the identifier
func (id ID) Hash() uint64 {
	var buf [16]byte
	h := xxh3.New()
	_, _ = h.WriteString(id.Runtime)
	putUint64(buf[:8], id.Counter)
	putUint64(buf[8:], uint64(id.Timestamp))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Parse reads an identifier from its textual form
func Parse(text string) (ID, error) {
	idx := strings.LastIndexByte(text, '/')
	if idx <= 0 {
		return NoID, fmt.Errorf("invalid identifier %q", text)
	}
	head, ts := text[:idx], text[idx+1:]
	idx = strings.LastIndexByte(head, '/')
	if idx <= 0 {
		return NoID, fmt.Errorf("invalid identifier %q", text)
	}
	runtime, counter := head[:idx], head[idx+1:]

	c, err := strconv.ParseUint(counter, 10, 64)
	if err != nil {
		return NoID, fmt.Errorf("invalid identifier counter %q: %w", text, err)
	}
	t, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return NoID, fmt.Errorf("invalid identifier timestamp %q: %w", text, err)
	}
	return ID{Runtime: runtime, Counter: c, Timestamp: t}, nil
}

// Generator hands out identifiers for one runtime
type Generator struct {
	runtime   string
	timestamp int64
	counter   *atomic.Uint64
}

// NewGenerator creates a Generator for the given runtime name.
// An empty name is replaced by a random UUID.
func NewGenerator(runtime string) *Generator {
	if runtime == "" {
		runtime = uuid.NewString()
	}
	return &Generator{
		runtime:   runtime,
		timestamp: time.Now().UnixNano(),
		counter:   atomic.NewUint64(0),
	}
}

// Runtime returns the runtime name of the generator
func (g *Generator) Runtime() string {
	return g.runtime
}

// Next returns a fresh identifier
func (g *Generator) Next() ID {
	return ID{
		Runtime:   g.runtime,
		Counter:   g.counter.Inc(),
		Timestamp: g.timestamp,
	}
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
