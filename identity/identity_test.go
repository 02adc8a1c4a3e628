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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	t.Run("With named runtime", func(t *testing.T) {
		gen := NewGenerator("node-1")
		first := gen.Next()
		second := gen.Next()

		assert.Equal(t, "node-1", first.Runtime)
		assert.Equal(t, uint64(1), first.Counter)
		assert.Equal(t, uint64(2), second.Counter)
		assert.Equal(t, first.Timestamp, second.Timestamp)
		assert.NotEqual(t, first, second)
		assert.False(t, first.IsZero())
	})
	t.Run("With unnamed runtime", func(t *testing.T) {
		gen := NewGenerator("")
		require.NotEmpty(t, gen.Runtime())
		assert.NotEqual(t, gen.Runtime(), NewGenerator("").Runtime())
	})
	t.Run("With concurrent callers", func(t *testing.T) {
		gen := NewGenerator("node-1")
		const count = 100
		ids := make(chan ID, count)
		var wg sync.WaitGroup
		for range count {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids <- gen.Next()
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[ID]struct{}, count)
		for id := range ids {
			seen[id] = struct{}{}
		}
		assert.Len(t, seen, count)
	})
}

func TestParse(t *testing.T) {
	id := ID{Runtime: "node/with/slashes", Counter: 42, Timestamp: 1700000000}
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, text := range []string{"", "abc", "a/1", "a/x/1", "a/1/x", "/1/2"} {
		_, err := Parse(text)
		assert.Error(t, err, text)
	}
}

func TestHash(t *testing.T) {
	a := ID{Runtime: "node-1", Counter: 1, Timestamp: 10}
	b := ID{Runtime: "node-1", Counter: 2, Timestamp: 10}
	assert.Equal(t, a.Hash(), a.Hash())
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.True(t, NoID.IsZero())
}
