// Package cache memoizes derived results keyed by operation and indicator
// set. Backends are an in-process TTL map or redis; payloads are JSON,
// optionally snappy-compressed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/macrolens/macrolens/internal/config"
	"github.com/macrolens/macrolens/internal/logging"
)

// Backend stores opaque payloads with a fixed TTL
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memo wraps a backend with a key prefix and a payload codec.
// A nil *Memo is valid and never caches.
type Memo struct {
	backend Backend
	codec   Codec
	prefix  string

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo builds a memo over backend
func NewMemo(backend Backend, codec Codec, prefix string) *Memo {
	if codec == nil {
		codec = PlainCodec{}
	}
	return &Memo{backend: backend, codec: codec, prefix: prefix}
}

// New builds the memo described by cfg. Type "none" returns a nil memo.
func New(ctx context.Context, cfg config.CacheConfig) (*Memo, error) {
	var codec Codec = PlainCodec{}
	if cfg.Compress {
		codec = SnappyCodec{}
	}

	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemo(NewMemoryCache(cfg.TTL), codec, cfg.KeyPrefix), nil
	case "redis":
		backend, err := NewRedisCache(ctx, RedisOptions{URL: cfg.URL, TTL: cfg.TTL})
		if err != nil {
			return nil, err
		}
		return NewMemo(backend, codec, cfg.KeyPrefix), nil
	}
	return nil, fmt.Errorf("unsupported cache type: %s (supported: none, memory, redis)", cfg.Type)
}

// Key joins an operation name and its arguments. Each argument is escaped,
// so ids containing the separator cannot collide. Callers pass indicator
// sets in a canonical order.
func (m *Memo) Key(op string, parts ...string) string {
	var b strings.Builder
	if m != nil && m.prefix != "" {
		b.WriteString(m.prefix)
		b.WriteByte(':')
	}
	b.WriteString(op)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}

// Stats reports hit and miss counts since start
func (m *Memo) Stats() (hits, misses int64) {
	if m == nil {
		return 0, 0
	}
	return m.hits.Load(), m.misses.Load()
}

// Entries reports the backend's entry counts when the backend can count
// them. Remote backends report false.
func (m *Memo) Entries() (MemoryStats, bool) {
	if m == nil {
		return MemoryStats{}, false
	}
	counter, ok := m.backend.(interface{ Stats() MemoryStats })
	if !ok {
		return MemoryStats{}, false
	}
	return counter.Stats(), true
}

// Close releases the backend
func (m *Memo) Close() error {
	if m == nil {
		return nil
	}
	return m.backend.Close()
}

// Memoize returns the cached value for key, or computes and stores it.
// Backend and codec failures are logged and fall through to compute.
func Memoize[T any](ctx context.Context, m *Memo, key string, compute func() (T, error)) (T, error) {
	if m == nil {
		return compute()
	}
	logger := logging.FromContext(ctx)

	if payload, ok, err := m.backend.Get(ctx, key); err != nil {
		logger.Warn("Cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		err := m.decode(payload, &v)
		if err == nil {
			m.hits.Add(1)
			return v, nil
		}
		logger.Warn("Discarding unreadable cache entry", "key", key, "error", err)
	}
	m.misses.Add(1)

	v, err := compute()
	if err != nil {
		return v, err
	}

	payload, err := m.encode(v)
	if err != nil {
		logger.Warn("Cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := m.backend.Set(ctx, key, payload); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func (m *Memo) encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return m.codec.Encode(raw)
}

func (m *Memo) decode(payload []byte, v any) error {
	raw, err := m.codec.Decode(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
