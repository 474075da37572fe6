package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-json"

	"gamecompare/internal/metrics"
)

// GetJSON decodes a cached value. Undecodable entries count as a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	if s == nil || key == "" {
		return zero, false, nil
	}
	b, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, false, nil
	}
	return out, true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	if s == nil || key == "" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, b, ttl)
}

// Remember returns the cached value for key or computes, stores and returns it.
// Cache failures never fail the call, and nil results are not stored.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ns := namespace(key)
	if v, ok, err := GetJSON[T](ctx, s, key); err == nil && ok {
		metrics.CacheRequests.WithLabelValues(ns, "hit").Inc()
		return v, nil
	}
	metrics.CacheRequests.WithLabelValues(ns, "miss").Inc()
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	if s != nil && key != "" {
		if b, err := json.Marshal(v); err == nil && !bytes.Equal(b, []byte("null")) {
			_ = s.Set(ctx, key, b, ttl)
		}
	}
	return v, nil
}
