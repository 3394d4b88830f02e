package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProvider stores regions in Redis under "<Prefix><region>:<key>".
type RedisProvider struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

// NewRedisProvider connects a provider. A zero TTL stores entries without
// expiration.
func NewRedisProvider(opt *redis.Options, ttl time.Duration) *RedisProvider {
	return &RedisProvider{
		Client: redis.NewClient(opt),
		TTL:    ttl,
		Prefix: "jormap:cache:",
	}
}

// Ping checks the connection.
func (p *RedisProvider) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

func (p *RedisProvider) BuildRegion(name string) (Region, error) {
	return &redisRegion{
		name:   name,
		client: p.Client,
		ttl:    p.TTL,
		prefix: p.Prefix + name + ":",
	}, nil
}

func (p *RedisProvider) Close() error {
	return p.Client.Close()
}

type redisRegion struct {
	name   string
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func (r *redisRegion) Name() string {
	return r.name
}

func (r *redisRegion) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (r *redisRegion) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *redisRegion) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisRegion) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *redisRegion) Close() error {
	return nil
}
