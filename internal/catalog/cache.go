package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchCache keeps normalized search results per (source, query) so repeat
// queries do not hit the upstream provider inside the TTL window.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

func searchKey(source, query string) string {
	return fmt.Sprintf("catalog:search:%s:%s", source, query)
}

func (c *SearchCache) Get(ctx context.Context, source, query string) ([]SearchResult, bool) {
	raw, err := c.rdb.Get(ctx, searchKey(source, query)).Bytes()
	if err != nil {
		return nil, false
	}

	var results []SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}

	return results, true
}

func (c *SearchCache) Set(ctx context.Context, source, query string, results []SearchResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, searchKey(source, query), raw, c.ttl).Err()
}
