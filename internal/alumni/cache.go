package alumni

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds the serialized directory listing between writes.
//
// Load reports the cache generation it observed. Store only writes when the
// generation is still the same, so a listing read from the store before a
// concurrent Invalidate is never written back.
type Cache interface {
	Load(ctx context.Context) (recs []Record, gen int64, ok bool, err error)
	Store(ctx context.Context, gen int64, recs []Record) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps the full listing under one key and its generation under another.
type RedisCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisCache creates a listing cache. A zero ttl keeps entries until invalidated.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: "alumni:list", genKey: "alumni:list:gen", ttl: ttl}
}

// Load returns the cached listing; ok is false on a miss.
func (c *RedisCache) Load(ctx context.Context) ([]Record, int64, bool, error) {
	var genCmd, listCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		genCmd = p.Get(ctx, c.genKey)
		listCmd = p.Get(ctx, c.key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}
	gen, err := generation(genCmd)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := listCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, gen, false, err
	}
	return recs, gen, true, nil
}

// Store replaces the cached listing unless the generation moved past gen.
func (c *RedisCache) Store(ctx context.Context, gen int64, recs []Record) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(tx.Get(ctx, c.genKey))
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated while storing
		return nil
	}
	return err
}

// Invalidate drops the cached listing and bumps the generation.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	return err
}

func generation(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
