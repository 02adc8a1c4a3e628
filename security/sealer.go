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

// Package security seals the messages exchanged between bodies with keys
// shared beforehand by the runtimes involved.
package security

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/internal/codec"
	"github.com/tochemey/goactive/internal/xsync"
	"github.com/tochemey/goactive/log"
)

var (
	// ErrUnknownSession is returned when a sealed message names a session without key
	ErrUnknownSession = errors.New("unknown security session")
	// ErrInvalidKey is returned when a session key does not have the expected size
	ErrInvalidKey = fmt.Errorf("security key must be %d bytes long", chacha20poly1305.KeySize)
	// ErrTampered is returned when a sealed message fails authentication
	ErrTampered = errors.New("sealed message failed authentication")
)

// sealedResult is the plaintext of a sealed reply
type sealedResult struct {
	Result  any              `cbor:"1,keyasint,omitempty"`
	Failure *gerrors.Failure `cbor:"2,keyasint,omitempty"`
}

// Sealer encrypts the method call of requests and the result of replies
// with ChaCha20-Poly1305. Keys are grouped in sessions: a message carries the
// name of the session its key belongs to.
type Sealer struct {
	codec          *codec.Codec
	logger         log.Logger
	defaultSession string
	sessions       *xsync.Map[string, cipher.AEAD]
}

var _ body.SecurityHook = (*Sealer)(nil)

// NewSealer creates a Sealer without any session
func NewSealer(opts ...Option) *Sealer {
	sealer := &Sealer{
		codec:    codec.Default(),
		logger:   log.DiscardLogger,
		sessions: xsync.NewMap[string, cipher.AEAD](),
	}
	for _, opt := range opts {
		opt.Apply(sealer)
	}
	return sealer
}

// AddSession registers the key of a session. The key must be
// chacha20poly1305.KeySize bytes long.
func (s *Sealer) AddSession(session string, key []byte) error {
	if len(key) != chacha20poly1305.KeySize {
		return ErrInvalidKey
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}
	s.sessions.Set(session, aead)
	return nil
}

// RemoveSession forgets the key of a session
func (s *Sealer) RemoveSession(session string) {
	s.sessions.Delete(session)
}

// SealRequest encrypts the method call of the request. It returns
// errors.ErrSecurityNotAvailable when no session applies, in which case the
// request travels in clear.
func (s *Sealer) SealRequest(_ context.Context, request *body.Request) error {
	if request.Sealed {
		return nil
	}

	session, aead, ok := s.session(request.SessionID)
	if !ok {
		return gerrors.ErrSecurityNotAvailable
	}

	plaintext, err := s.codec.Marshal(request.Call)
	if err != nil {
		return err
	}

	request.Ciphered = seal(aead, plaintext, requestData(request))
	request.SessionID = session
	request.Sealed = true
	request.Call = nil
	return nil
}

// OpenRequest decrypts a request sealed by SealRequest
func (s *Sealer) OpenRequest(_ context.Context, request *body.Request) error {
	if !request.Sealed {
		return nil
	}

	aead, ok := s.sessions.Get(request.SessionID)
	if !ok {
		return fmt.Errorf("session=(%s): %w", request.SessionID, ErrUnknownSession)
	}

	plaintext, err := open(aead, request.Ciphered, requestData(request))
	if err != nil {
		return err
	}

	call := new(body.MethodCall)
	if err := s.codec.Unmarshal(plaintext, call); err != nil {
		return err
	}

	request.Call = call
	request.Ciphered = nil
	request.Sealed = false
	return nil
}

// SealReply encrypts the result of the reply
func (s *Sealer) SealReply(_ context.Context, reply *body.Reply) error {
	if reply.Sealed {
		return nil
	}

	session, aead, ok := s.session(reply.SessionID)
	if !ok {
		return gerrors.ErrSecurityNotAvailable
	}

	plaintext, err := s.codec.Marshal(&sealedResult{Result: reply.Result, Failure: reply.Failure})
	if err != nil {
		return err
	}

	reply.Ciphered = seal(aead, plaintext, replyData(reply))
	reply.SessionID = session
	reply.Sealed = true
	reply.Result = nil
	reply.Failure = nil
	return nil
}

// OpenReply decrypts a reply sealed by SealReply
func (s *Sealer) OpenReply(_ context.Context, reply *body.Reply) error {
	if !reply.Sealed {
		return nil
	}

	aead, ok := s.sessions.Get(reply.SessionID)
	if !ok {
		return fmt.Errorf("session=(%s): %w", reply.SessionID, ErrUnknownSession)
	}

	plaintext, err := open(aead, reply.Ciphered, replyData(reply))
	if err != nil {
		return err
	}

	result := new(sealedResult)
	if err := s.codec.Unmarshal(plaintext, result); err != nil {
		return err
	}

	reply.Result = result.Result
	reply.Failure = result.Failure
	reply.Ciphered = nil
	reply.Sealed = false
	return nil
}

func (s *Sealer) session(requested string) (string, cipher.AEAD, bool) {
	session := requested
	if session == "" {
		session = s.defaultSession
	}

	if session == "" {
		return "", nil, false
	}

	aead, ok := s.sessions.Get(session)
	if !ok {
		s.logger.Debugf("no key for security session=(%s)", session)
		return "", nil, false
	}
	return session, aead, true
}

// seal returns the nonce followed by the ciphertext
func seal(aead cipher.AEAD, plaintext, additional []byte) []byte {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		panic(err)
	}
	return aead.Seal(nonce, nonce, plaintext, additional)
}

func open(aead cipher.AEAD, ciphered, additional []byte) ([]byte, error) {
	if len(ciphered) < aead.NonceSize() {
		return nil, ErrTampered
	}

	nonce, ciphertext := ciphered[:aead.NonceSize()], ciphered[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, errors.Join(ErrTampered, err)
	}
	return plaintext, nil
}

// requestData binds a sealed call to its sender and sequence number
func requestData(request *body.Request) []byte {
	return []byte(request.Sender.String() + "#" + strconv.FormatUint(request.Sequence, 10))
}

func replyData(reply *body.Reply) []byte {
	return []byte(reply.FutureID.String())
}
