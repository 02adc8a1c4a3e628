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

package codec

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
)

// Tags of the runtime types that may travel inside method arguments and
// results. Values typed as any decode back to these Go types thanks to them.
const (
	TagIdentity  uint64 = 27400
	TagFutureRef uint64 = 27401
	TagFutureID  uint64 = 27402

	// MinUserTag is the smallest tag applications may register
	MinUserTag uint64 = 27500
)

var (
	// ErrEncodeFailed is returned when CBOR marshaling fails.
	ErrEncodeFailed = errors.New("codec: failed to encode value")
	// ErrDecodeFailed is returned when CBOR unmarshaling fails.
	ErrDecodeFailed = errors.New("codec: failed to decode value")

	encOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	decOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
		IntDec:          cbor.IntDecConvertSigned,
	}

	defaultOnce  sync.Once
	defaultCodec *Codec
)

// Type associates a CBOR tag with a Go type so that values of that type keep
// their concrete type when they are decoded into an interface.
type Type struct {
	Tag   uint64
	Value any
}

// Codec encodes and decodes values exchanged between runtimes.
// It is immutable and safe for concurrent use.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// New creates a Codec that knows the runtime types plus the given ones.
// Application tags must be at least MinUserTag.
func New(types ...Type) (*Codec, error) {
	tags := cbor.NewTagSet()
	builtins := []Type{
		{Tag: TagIdentity, Value: identity.ID{}},
		{Tag: TagFutureRef, Value: future.Ref{}},
		{Tag: TagFutureID, Value: future.ID{}},
	}

	for _, t := range types {
		if t.Tag < MinUserTag {
			return nil, fmt.Errorf("codec: tag %d of %T is reserved", t.Tag, t.Value)
		}
	}

	for _, t := range append(builtins, types...) {
		typ := reflect.TypeOf(t.Value)
		if typ == nil {
			return nil, fmt.Errorf("codec: nil value for tag %d", t.Tag)
		}
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if err := tags.Add(cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired}, typ, t.Tag); err != nil {
			return nil, fmt.Errorf("codec: failed to register tag %d: %w", t.Tag, err)
		}
	}

	encMode, err := encOpts.EncModeWithTags(tags)
	if err != nil {
		return nil, err
	}
	decMode, err := decOpts.DecModeWithTags(tags)
	if err != nil {
		return nil, err
	}
	return &Codec{encMode: encMode, decMode: decMode}, nil
}

// Default returns the shared Codec that knows only the runtime types
func Default() *Codec {
	defaultOnce.Do(func() {
		c, err := New()
		if err != nil {
			panic(err)
		}
		defaultCodec = c
	})
	return defaultCodec
}

// Marshal encodes the given value
func (c *Codec) Marshal(value any) ([]byte, error) {
	bytea, err := c.encMode.Marshal(value)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}
	return bytea, nil
}

// Unmarshal decodes data into the value pointed to by out
func (c *Codec) Unmarshal(data []byte, out any) error {
	if err := c.decMode.Unmarshal(data, out); err != nil {
		return errors.Join(ErrDecodeFailed, err)
	}
	return nil
}
