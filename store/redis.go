package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/tastekit/core"
)

// RedisOptions 是连接 Redis 所需的配置。
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix 加在所有 key 前面，多套目录共用一个 Redis 时用来隔离，例如 "tastekit:"
	KeyPrefix string
}

// RedisStore 是 Redis 实现的 KeyValueStore，目录与用户信号需要在多个实例之间共享时使用。
// 除 key 不存在外的 Redis 错误统一包装为 store/UNAVAILABLE。
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore 连接 Redis 并 PING 一次。
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: redis ping "+opts.Addr, err)
	}
	return NewRedisStoreWithClient(client, opts.KeyPrefix), nil
}

// NewRedisStoreWithClient 包装已有的客户端（单机、哨兵或集群）。
func NewRedisStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

var (
	_ core.Store         = (*RedisStore)(nil)
	_ core.KeyValueStore = (*RedisStore)(nil)
)

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) fail(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return core.ErrStoreNotFound
	}
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: redis "+op+" "+key, err)
}

func expiration(ttl []int) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Duration(ttl[0]) * time.Second
	}
	return 0
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		return nil, r.fail("get", key, err)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return r.fail("set", key, r.client.Set(ctx, r.key(key), value, expiration(ttl)).Err())
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.fail("del", key, r.client.Del(ctx, r.key(key)).Err())
}

// BatchGet 用一次 MGET 读取，缺失的 key 不出现在结果中。
func (r *RedisStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	vals, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, r.fail("mget", keys[0], err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = []byte(s)
		}
	}
	return out, nil
}

// BatchSet 在一个事务管道中写入全部 key。
func (r *RedisStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if len(kvs) == 0 {
		return nil
	}
	exp := expiration(ttl)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range kvs {
			pipe.Set(ctx, r.key(k), v, exp)
		}
		return nil
	})
	return r.fail("batch set", "", err)
}

func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.fail("zadd", key, r.client.ZAdd(ctx, r.key(key), redis.Z{Score: score, Member: member}).Err())
}

// ZRange 按分数降序（ZREVRANGE）返回成员。
func (r *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.client.ZRevRange(ctx, r.key(key), start, stop).Result()
	if err != nil {
		return nil, r.fail("zrevrange", key, err)
	}
	return members, nil
}

func (r *RedisStore) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.fail("zrem", key, r.client.ZRem(ctx, r.key(key), args...).Err())
}

func (r *RedisStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, r.key(key), member).Result()
	if err != nil {
		return 0, r.fail("zscore", key, err)
	}
	return score, nil
}

func (r *RedisStore) HGet(ctx context.Context, key, field string) ([]byte, error) {
	val, err := r.client.HGet(ctx, r.key(key), field).Bytes()
	if err != nil {
		return nil, r.fail("hget", key, err)
	}
	return val, nil
}

func (r *RedisStore) HSet(ctx context.Context, key, field string, value []byte) error {
	return r.fail("hset", key, r.client.HSet(ctx, r.key(key), field, value).Err())
}

func (r *RedisStore) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return r.fail("hdel", key, r.client.HDel(ctx, r.key(key), fields...).Err())
}

func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		return nil, r.fail("hgetall", key, err)
	}
	out := make(map[string][]byte, len(vals))
	for f, v := range vals {
		out[f] = []byte(v)
	}
	return out, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
