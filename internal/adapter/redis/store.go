// Package redis provides a Redis-backed second tier for the place lookup
// cache so answers survive between runs.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/couchcryptid/geofix/internal/lookup"
)

// DefaultPrefix namespaces lookup keys in a shared Redis database.
const DefaultPrefix = "geofix:lookup:"

// Store implements lookup.Store. Entries are stored as JSON under
// prefix+key and expire after ttl; a zero ttl keeps them forever.
type Store struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
	close  func() error
}

// Open connects to addr and returns a Store. The connection is verified with
// a PING so a bad address fails at startup rather than on the first lookup.
func Open(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	s := NewStore(client, DefaultPrefix, ttl)
	s.close = client.Close
	return s, nil
}

// NewStore wraps an existing client. Closing the store leaves the client open.
func NewStore(client goredis.Cmdable, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the entry stored under key. A missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) (lookup.Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return lookup.Entry{}, false, nil
	}
	if err != nil {
		return lookup.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e lookup.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return lookup.Entry{}, false, fmt.Errorf("decode cached entry %q: %w", key, err)
	}
	return e, true, nil
}

// Put stores e under key.
func (s *Store) Put(ctx context.Context, key string, e lookup.Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cached entry: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection opened by Open.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
