package quote

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache decorates an Oracle with a redis-backed TTL cache. The ledger
// engine still re-queries its oracle on every call; whether the oracle
// answers from redis or from the upstream provider is the oracle's
// business. A nil client or non-positive TTL makes the cache a
// pass-through.
type Cache struct {
	next   Oracle
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps next with a redis quote cache.
func NewCache(next Oracle, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{next: next, client: client, ttl: ttl}
}

// Lookup returns a cached quote when one is fresh, otherwise asks the
// wrapped oracle and stores the answer. Redis errors fall through to the
// wrapped oracle; a broken cache must not break pricing.
func (c *Cache) Lookup(symbol string) (Quote, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.next.Lookup(symbol)
	}

	ctx := context.Background()
	key := "quote:" + strings.ToUpper(strings.TrimSpace(symbol))

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var q Quote
		if err := json.Unmarshal(data, &q); err == nil {
			return q, nil
		}
	}

	q, err := c.next.Lookup(symbol)
	if err != nil {
		return Quote{}, err
	}

	if data, err := json.Marshal(q); err == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}

	return q, nil
}
