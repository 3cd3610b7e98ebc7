// Package cache stores rendered pages for a short time.
//
// Two backends exist: Redis for deployments with more than one process and an
// in-process map for development and tests. Both namespace keys under a
// prefix so Clear only ever touches entries this application wrote.
package cache

import (
	"context"
	"time"
)

// DefaultPrefix namespaces the index page entries.
const DefaultPrefix = "index_page"

type Cache interface {
	// Get reports ok=false on a miss; err is reserved for backend failures.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Clear drops every entry under the cache prefix.
	Clear(ctx context.Context) error
}

// Shared reports whether c is visible to other processes. Clearing a cache
// that is not shared only affects the calling process.
func Shared(c Cache) bool {
	_, ok := c.(*redisCache)
	return ok
}
