package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/loftplanner/repository"
)

type loftCache struct {
	client *redislib.Client
	source repository.LoftRepository
	prefix string
	ttl    time.Duration
}

// NewLoftCache returns a LoftResolver that serves names from Redis and falls
// back to source for misses, caching what it finds for ttl.
func NewLoftCache(client *redislib.Client, source repository.LoftRepository, ttl time.Duration) repository.LoftResolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &loftCache{
		client: client,
		source: source,
		prefix: "loft:",
		ttl:    ttl,
	}
}

func (c *loftCache) LoftNames(ctx context.Context, userID string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	missing := ids
	if c.client != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = c.key(userID, id)
		}
		// a cache outage degrades to reading every id from the source
		if cached, err := c.client.MGet(ctx, keys...).Result(); err == nil {
			missing = missing[:0:0]
			for i, v := range cached {
				if s, ok := v.(string); ok {
					names[ids[i]] = s
					continue
				}
				missing = append(missing, ids[i])
			}
		}
	}
	if len(missing) == 0 || c.source == nil {
		return names, nil
	}

	lofts, err := c.source.ListByIDs(ctx, userID, missing)
	if err != nil {
		return nil, err
	}
	if c.client == nil {
		for _, l := range lofts {
			names[l.ID] = l.Name
		}
		return names, nil
	}

	pipe := c.client.Pipeline()
	for _, l := range lofts {
		names[l.ID] = l.Name
		pipe.Set(ctx, c.key(userID, l.ID), l.Name, c.ttl)
	}
	_, _ = pipe.Exec(ctx)
	return names, nil
}

func (c *loftCache) key(userID, id string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, userID, id)
}
