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
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/codec"
)

type kind uint8

const (
	requestKind kind = iota + 1
	replyKind
)

const (
	rawFrame byte = iota
	zstdFrame
)

var errEmptyFrame = errors.New("remote: empty frame")

// envelope is what travels between two nodes
type envelope struct {
	Kind        kind          `cbor:"1,keyasint"`
	Destination identity.ID   `cbor:"2,keyasint"`
	Request     *body.Request `cbor:"3,keyasint,omitempty"`
	Reply       *body.Reply   `cbor:"4,keyasint,omitempty"`
}

// ack tells the sender how the destination admitted the message
type ack struct {
	Status body.Status `cbor:"1,keyasint"`
	// Sentinel is the message of the error class the failure belongs to
	Sentinel string `cbor:"2,keyasint,omitempty"`
	Error    string `cbor:"3,keyasint,omitempty"`
}

// sentinels are the errors whose identity survives the trip back to the sender
var sentinels = []error{
	gerrors.ErrTerminated,
	gerrors.ErrNotActive,
	gerrors.ErrHalfBodyCannotServe,
	gerrors.ErrBodyNotFound,
	gerrors.ErrInvalidRequest,
	gerrors.ErrInvalidReply,
	gerrors.ErrSecurityNotAvailable,
}

func newAck(status body.Status, err error) *ack {
	out := &ack{Status: status}
	if err == nil {
		return out
	}

	out.Error = err.Error()
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			out.Sentinel = sentinel.Error()
			break
		}
	}
	return out
}

// err restores the error carried by the acknowledgement
func (a *ack) err() error {
	if a.Error == "" {
		return nil
	}

	if a.Sentinel == "" {
		return errors.New(a.Error)
	}

	sentinel := gerrors.FromString(a.Sentinel)
	if a.Error == a.Sentinel {
		return sentinel
	}
	return fmt.Errorf("%s: %w", a.Error, sentinel)
}

// frames encodes values and compresses the large ones.
// The first byte of a frame tells whether the payload is compressed.
type frames struct {
	codec     *codec.Codec
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

func newFrames(c *codec.Codec, compression bool, threshold int) (*frames, error) {
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(64<<20))
	if err != nil {
		return nil, err
	}

	f := &frames{codec: c, decoder: decoder, threshold: threshold}
	if compression {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithWindowSize(4<<20),
			zstd.WithEncoderConcurrency(1))
		if err != nil {
			decoder.Close()
			return nil, err
		}
		f.encoder = encoder
	}
	return f, nil
}

func (f *frames) encode(value any) ([]byte, error) {
	payload, err := f.codec.Marshal(value)
	if err != nil {
		return nil, err
	}

	if f.encoder == nil || len(payload) < f.threshold {
		return append([]byte{rawFrame}, payload...), nil
	}

	frame := make([]byte, 1, len(payload)/2+1)
	frame[0] = zstdFrame
	return f.encoder.EncodeAll(payload, frame), nil
}

func (f *frames) decode(frame []byte, out any) error {
	if len(frame) == 0 {
		return errEmptyFrame
	}

	payload := frame[1:]
	switch frame[0] {
	case rawFrame:
	case zstdFrame:
		decompressed, err := f.decoder.DecodeAll(payload, nil)
		if err != nil {
			return errors.Join(codec.ErrDecodeFailed, err)
		}
		payload = decompressed
	default:
		return fmt.Errorf("remote: unknown frame type %d", frame[0])
	}
	return f.codec.Unmarshal(payload, out)
}

func (f *frames) close() {
	if f.encoder != nil {
		_ = f.encoder.Close()
	}
	f.decoder.Close()
}
