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

package shardedmap

import (
	"runtime"
	"sync"
)

const maxShards = 64

type shard[K comparable, V any] struct {
	sync.RWMutex
	m map[K]V
}

// Map is a concurrent map split into shards to reduce lock contention.
// Keys are routed to a shard by the hash function given at creation.
type Map[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
}

// New creates an instance of Map
func New[K comparable, V any](hash func(K) uint64) *Map[K, V] {
	numShards := calculateNumShards()
	shards := make([]*shard[K, V], numShards)
	for i := range numShards {
		shards[i] = &shard[K, V]{m: make(map[K]V)}
	}
	return &Map[K, V]{shards: shards, hash: hash}
}

// Load returns the value of a given key
func (s *Map[K, V]) Load(key K) (V, bool) {
	shard := s.getShard(key)
	shard.RLock()
	val, ok := shard.m[key]
	shard.RUnlock()
	return val, ok
}

// Store adds a key/value pair to the map
func (s *Map[K, V]) Store(key K, value V) {
	shard := s.getShard(key)
	shard.Lock()
	shard.m[key] = value
	shard.Unlock()
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (s *Map[K, V]) LoadOrStore(key K, value V) (V, bool) {
	shard := s.getShard(key)
	shard.Lock()
	defer shard.Unlock()
	if existing, ok := shard.m[key]; ok {
		return existing, true
	}
	shard.m[key] = value
	return value, false
}

// Delete removes a given key from the map
func (s *Map[K, V]) Delete(key K) {
	shard := s.getShard(key)
	shard.Lock()
	delete(shard.m, key)
	shard.Unlock()
}

// CompareAndDelete removes the key only when the stored value satisfies match
func (s *Map[K, V]) CompareAndDelete(key K, match func(V) bool) bool {
	shard := s.getShard(key)
	shard.Lock()
	defer shard.Unlock()
	if val, ok := shard.m[key]; ok && match(val) {
		delete(shard.m, key)
		return true
	}
	return false
}

// Len returns the number of entries
func (s *Map[K, V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		shard.RLock()
		total += len(shard.m)
		shard.RUnlock()
	}
	return total
}

// Range iterates over the map. Iteration stops when f returns false.
func (s *Map[K, V]) Range(f func(key K, value V) bool) {
	for _, shard := range s.shards {
		shard.RLock()
		for k, v := range shard.m {
			if !f(k, v) {
				shard.RUnlock()
				return
			}
		}
		shard.RUnlock()
	}
}

// Values returns a snapshot of the values
func (s *Map[K, V]) Values() []V {
	var out []V
	s.Range(func(_ K, v V) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Reset empties the map
func (s *Map[K, V]) Reset() {
	for _, shard := range s.shards {
		shard.Lock()
		shard.m = make(map[K]V)
		shard.Unlock()
	}
}

func (s *Map[K, V]) getShard(key K) *shard[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

// calculateNumShards returns the total number of shards to use
func calculateNumShards() uint64 {
	optimalShards := runtime.NumCPU() * 4
	if optimalShards > maxShards {
		return uint64(maxShards)
	}
	return uint64(optimalShards)
}
