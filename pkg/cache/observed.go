package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/astviz/pkg/observability"
)

// Observe wraps c so every lookup and write is reported to the registered
// [observability.CacheHooks]. The key type passed to the hooks is the key's
// prefix up to the first ':' ("projection", "artifact").
func Observe(c Cache) Cache {
	if _, ok := c.(observed); ok {
		return c
	}
	return observed{inner: c}
}

type observed struct {
	inner Cache
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (o observed) Delete(ctx context.Context, key string) error { return o.inner.Delete(ctx, key) }

func (o observed) Close() error { return o.inner.Close() }

// keyType strips any scope prefix and the hash from a key.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
