package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by helpers that require a cached value when the
// key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Require returns the cached value for key or ErrCacheMiss.
func Require(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}
