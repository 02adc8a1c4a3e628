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
	"github.com/tochemey/goactive/identity"
	"github.com/tochemey/goactive/internal/xsync"
)

// LocationTable caches where remote or migrated bodies can be reached
type LocationTable struct {
	entries *xsync.Map[identity.ID, Handle]
}

// NewLocationTable creates an empty LocationTable
func NewLocationTable() *LocationTable {
	return &LocationTable{entries: xsync.NewMap[identity.ID, Handle]()}
}

// Update records the current location of a body
func (t *LocationTable) Update(id identity.ID, handle Handle) {
	t.entries.Set(id, handle)
}

// Lookup returns the last known location of a body
func (t *LocationTable) Lookup(id identity.ID) (Handle, bool) {
	return t.entries.Get(id)
}

// Remove forgets the location of a body
func (t *LocationTable) Remove(id identity.ID) {
	t.entries.Delete(id)
}

// Len returns the number of known locations
func (t *LocationTable) Len() int {
	return t.entries.Len()
}

func (t *LocationTable) reset() {
	t.entries.Reset()
}
