package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "craftwiz:"

// RedisStore keeps each entry in a hash with fields data and stored_at.
// A positive TTL sets an expiry on write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	fields, err := r.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return Entry{}, err
	}
	data, ok := fields["data"]
	if !ok {
		return Entry{}, ErrMiss
	}
	ns, _ := strconv.ParseInt(fields["stored_at"], 10, 64)
	return Entry{Data: []byte(data), StoredAt: time.Unix(0, ns)}, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	k := redisKeyPrefix + key
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, k, "data", data, "stored_at", time.Now().UnixNano())
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
