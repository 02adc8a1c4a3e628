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

package future

import (
	"strconv"

	"github.com/tochemey/goactive/identity"
)

// ID identifies a future across runtimes: the body that issued the request
// and the sequence number of that request within the issuing body.
type ID struct {
	Creator  identity.ID `cbor:"1,keyasint"`
	Sequence uint64      `cbor:"2,keyasint"`
}

// IsZero reports whether the identifier is unset
func (id ID) IsZero() bool {
	return id.Sequence == 0 && id.Creator.IsZero()
}

// String returns a readable form of the identifier
func (id ID) String() string {
	return id.Creator.String() + "#" + strconv.FormatUint(id.Sequence, 10)
}

// Ref is the wire form of a future that was not resolved when the value
// holding it left its runtime. The receiver substitutes it with a local
// future that the automatic continuation mechanism resolves later.
type Ref struct {
	ID ID `cbor:"1,keyasint"`
}
