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

package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tochemey/goactive/body"
	gerrors "github.com/tochemey/goactive/errors"
	"github.com/tochemey/goactive/identity"
)

const defaultKeyPrefix = "goactive:location:"

// RedisDirectory is a directory shared by runtimes through Redis.
// Entries may expire so that runtimes that died without cleaning up do not
// leave stale addresses forever.
type RedisDirectory struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

var _ body.Directory = (*RedisDirectory)(nil)

// RedisOption configures a RedisDirectory
type RedisOption func(*RedisDirectory)

// WithKeyPrefix sets the prefix of the Redis keys
func WithKeyPrefix(prefix string) RedisOption {
	return func(d *RedisDirectory) {
		if prefix != "" {
			d.keyPrefix = prefix
		}
	}
}

// WithTTL sets the time an entry lives in Redis. Zero means forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(d *RedisDirectory) {
		if ttl >= 0 {
			d.ttl = ttl
		}
	}
}

// NewRedisDirectory creates a RedisDirectory using the given client
func NewRedisDirectory(client redis.UniversalClient, opts ...RedisOption) *RedisDirectory {
	directory := &RedisDirectory{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(directory)
	}
	return directory
}

// Register records the address of a body
func (d *RedisDirectory) Register(ctx context.Context, id identity.ID, address string) error {
	if err := d.client.Set(ctx, d.key(id), address, d.ttl).Err(); err != nil {
		return fmt.Errorf("location: failed to register body=(%s): %w", id, err)
	}
	return nil
}

// Lookup returns the address of a body
func (d *RedisDirectory) Lookup(ctx context.Context, id identity.ID) (string, error) {
	address, err := d.client.Get(ctx, d.key(id)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", gerrors.NewErrBodyNotFound(id.String())
	case err != nil:
		return "", fmt.Errorf("location: failed to look up body=(%s): %w", id, err)
	default:
		return address, nil
	}
}

// Remove forgets the address of a body
func (d *RedisDirectory) Remove(ctx context.Context, id identity.ID) error {
	if err := d.client.Del(ctx, d.key(id)).Err(); err != nil {
		return fmt.Errorf("location: failed to remove body=(%s): %w", id, err)
	}
	return nil
}

func (d *RedisDirectory) key(id identity.ID) string {
	return d.keyPrefix + id.String()
}
