package cache

import (
	"context"
	"time"

	"github.com/placerlab/placer/pkg/observability"
)

// Observed reports every hit, miss and write of the wrapped cache to the
// registered cache hooks, grouped by [KeyType].
func Observed(c Cache) Cache { return observed{c} }

type observed struct{ Cache }

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}
