package core

import "context"

// Store 是目录、黑名单等数据所在的 KV 存储，由 store.MemoryStore 与 store.RedisStore 实现。
// key 不存在时返回 ErrStoreNotFound；ttl 以秒为单位，缺省表示不过期。
type Store interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error

	// BatchGet 只返回存在的 key，读取整个目录时用它减少往返。
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error
	Close() error
}

// KeyValueStore 在 Store 之上增加用户信号需要的结构：
//   - 有序集合：浏览历史，分数为浏览时间（毫秒），ZRange 按分数降序
//   - Hash：评分，field 为物品 ID
type KeyValueStore interface {
	Store

	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRem(ctx context.Context, key string, members ...string) error
	ZScore(ctx context.Context, key string, member string) (float64, error)

	HGet(ctx context.Context, key, field string) ([]byte, error)
	HSet(ctx context.Context, key, field string, value []byte) error
	HDel(ctx context.Context, key string, fields ...string) error
	// HGetAll 在 key 不存在时返回空 map。
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 只认 store 模块的 NOT_FOUND，与其它模块的同名错误码区分。
func IsStoreNotFound(err error) bool {
	de := GetDomainError(err)
	return de != nil && de.Module == ModuleStore && de.Code == ErrorCodeNotFound
}

