package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/tastekit/core"
)

// MemoryStore 是进程内的 KeyValueStore，用于测试、CLI 和单机部署。
// 普通 key、hash 与有序集合分开存放；TTL 只作用于普通 key，读取时惰性过期。
type MemoryStore struct {
	mu     sync.RWMutex
	kv     map[string]memEntry
	hashes map[string]map[string][]byte
	zsets  map[string]map[string]float64
	now    func() time.Time
}

type memEntry struct {
	value    []byte
	expireAt time.Time // 零值表示永不过期
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kv:     make(map[string]memEntry),
		hashes: make(map[string]map[string][]byte),
		zsets:  make(map[string]map[string]float64),
		now:    time.Now,
	}
}

var (
	_ core.Store         = (*MemoryStore)(nil)
	_ core.KeyValueStore = (*MemoryStore)(nil)
)

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.kv[key]
	if !ok || e.expired(m.now()) {
		return nil, core.ErrStoreNotFound
	}
	return bytes.Clone(e.value), nil
}

// Set 写入 key；ttl 以秒为单位，缺省或 <= 0 表示不过期。
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = m.entry(value, ttl)
	return nil
}

func (m *MemoryStore) entry(value []byte, ttl []int) memEntry {
	e := memEntry{value: bytes.Clone(value)}
	if len(ttl) > 0 && ttl[0] > 0 {
		e.expireAt = m.now().Add(time.Duration(ttl[0]) * time.Second)
	}
	return e
}

// Delete 删除 key 以及同名的 hash 与有序集合。
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	delete(m.hashes, key)
	delete(m.zsets, key)
	return nil
}

// BatchGet 只返回存在且未过期的 key。
func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if e, ok := m.kv[k]; ok && !e.expired(now) {
			out[k] = bytes.Clone(e.value)
		}
	}
	return out, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kvs {
		m.kv[k] = m.entry(v, ttl)
	}
	return nil
}

// Purge 清理已过期的 key，返回清理数量。长期运行的进程可以定期调用。
func (m *MemoryStore) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for k, e := range m.kv {
		if e.expired(now) {
			delete(m.kv, k)
			n++
		}
	}
	return n
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.zsets[key]
	if z == nil {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] = score
	return nil
}

// ZRange 按分数降序返回排名 [start, stop] 的成员，stop < 0 表示到末尾。
// 同分按成员字典序。
func (m *MemoryStore) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	members := make([]string, 0, len(m.zsets[key]))
	scores := make(map[string]float64, len(m.zsets[key]))
	for member, score := range m.zsets[key] {
		members = append(members, member)
		scores[member] = score
	}
	m.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		si, sj := scores[members[i]], scores[members[j]]
		if si != sj {
			return si > sj
		}
		return members[i] < members[j]
	})

	n := int64(len(members))
	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	if start > stop {
		return nil, nil
	}
	return members[start : stop+1], nil
}

func (m *MemoryStore) ZRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := m.zsets[key]
	for _, member := range members {
		delete(z, member)
	}
	if len(z) == 0 {
		delete(m.zsets, key)
	}
	return nil
}

func (m *MemoryStore) ZScore(_ context.Context, key string, member string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.zsets[key][member]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	return score, nil
}

func (m *MemoryStore) HGet(_ context.Context, key, field string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.hashes[key][field]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryStore) HSet(_ context.Context, key, field string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hashes[key]
	if h == nil {
		h = make(map[string][]byte)
		m.hashes[key] = h
	}
	h[field] = bytes.Clone(value)
	return nil
}

func (m *MemoryStore) HDel(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hashes[key]
	for _, f := range fields {
		delete(h, f)
	}
	if len(h) == 0 {
		delete(m.hashes, key)
	}
	return nil
}

// HGetAll 返回 hash 的全部字段；key 不存在时返回空 map。
func (m *MemoryStore) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		out[f] = bytes.Clone(v)
	}
	return out, nil
}
