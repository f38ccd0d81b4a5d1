package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/tastekit/core"
)

// CatalogCache 在 CatalogAccessor 之上缓存整份目录快照，减少对远程存储的访问。
// 快照过期后下一次读取会重新加载；写入方需要在修改目录后调用 Invalidate。
// Get 直接从快照中查找。
type CatalogCache struct {
	mu       sync.RWMutex
	source   core.CatalogAccessor
	ttl      time.Duration
	items    []*core.CatalogItem
	index    map[string]*core.CatalogItem
	expireAt time.Time
	now      func() time.Time
}

// NewCatalogCache 创建目录缓存；ttl <= 0 时快照永不过期。
func NewCatalogCache(source core.CatalogAccessor, ttl time.Duration) *CatalogCache {
	return &CatalogCache{source: source, ttl: ttl, now: time.Now}
}

var _ core.CatalogAccessor = (*CatalogCache)(nil)

func (c *CatalogCache) ListAll(ctx context.Context) ([]*core.CatalogItem, error) {
	if items, ok := c.snapshot(); ok {
		return items, nil
	}

	items, err := c.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.index = core.IndexCatalog(items)
	if c.ttl > 0 {
		c.expireAt = c.now().Add(c.ttl)
	} else {
		c.expireAt = time.Time{}
	}
	return items, nil
}

func (c *CatalogCache) Get(ctx context.Context, id string) (*core.CatalogItem, error) {
	if _, err := c.ListAll(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index[id], nil
}

// Invalidate 丢弃当前快照。
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.index = nil
}

func (c *CatalogCache) snapshot() ([]*core.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil {
		return nil, false
	}
	if !c.expireAt.IsZero() && c.now().After(c.expireAt) {
		return nil, false
	}
	return c.items, true
}
