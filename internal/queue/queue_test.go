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

package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		q := New[int]()
		for i := 0; i < 100; i++ {
			require.True(t, q.Push(i))
		}
		assert.Equal(t, 100, q.Len())
		for i := 0; i < 100; i++ {
			v, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, i, v)
		}
		_, ok := q.Pop()
		assert.False(t, ok)
		assert.Zero(t, q.Len())
	})
	t.Run("With Wait blocking until Push", func(t *testing.T) {
		q := New[string]()
		received := make(chan string, 1)
		go func() {
			v, ok := q.Wait()
			if ok {
				received <- v
			}
		}()

		time.Sleep(10 * time.Millisecond)
		require.True(t, q.Push("value"))

		select {
		case v := <-received:
			assert.Equal(t, "value", v)
		case <-time.After(time.Second):
			t.Fatal("Wait did not return")
		}
	})
	t.Run("With Close waking consumers", func(t *testing.T) {
		q := New[int]()
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok := q.Wait()
				assert.False(t, ok)
			}()
		}

		time.Sleep(10 * time.Millisecond)
		q.Close()
		wg.Wait()
		assert.True(t, q.IsClosed())
		assert.False(t, q.Push(1))
	})
	t.Run("With CloseRemaining", func(t *testing.T) {
		q := New[int]()
		q.Push(1)
		q.Push(2)
		assert.Equal(t, []int{1, 2}, q.CloseRemaining())
		assert.Empty(t, q.CloseRemaining())
		_, ok := q.Wait()
		assert.False(t, ok)
	})
}
