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

// Package location provides the directories mapping body identifiers to the
// transport address of the runtime hosting them.
package location

import (
	"context"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/xsync"
)

// MemoryDirectory is a directory shared by the runtimes of one process
type MemoryDirectory struct {
	addresses *xsync.Map[identity.ID, string]
}

var _ body.Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates an empty MemoryDirectory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{addresses: xsync.NewMap[identity.ID, string]()}
}

// Register records the address of a body
func (d *MemoryDirectory) Register(_ context.Context, id identity.ID, address string) error {
	d.addresses.Set(id, address)
	return nil
}

// Lookup returns the address of a body
func (d *MemoryDirectory) Lookup(_ context.Context, id identity.ID) (string, error) {
	address, ok := d.addresses.Get(id)
	if !ok {
		return "", gerrors.NewErrBodyNotFound(id.String())
	}
	return address, nil
}

// Remove forgets the address of a body
func (d *MemoryDirectory) Remove(_ context.Context, id identity.ID) error {
	d.addresses.Delete(id)
	return nil
}

// Len returns the number of registered bodies
func (d *MemoryDirectory) Len() int {
	return d.addresses.Len()
}
