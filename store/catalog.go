package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/tastekit/core"
)

const (
	catalogIDsKey     = "catalog:ids"
	catalogItemPrefix = "catalog:item:"
)

// KVCatalog 把目录存放在任意 core.Store 中：
//   - catalog:ids         JSON 数组，保存目录顺序
//   - catalog:item:<id>   JSON 序列化的 CatalogItem
//
// 目录顺序决定所有排序中的同分决胜，因此 ids 列表需要单独维护。
type KVCatalog struct {
	store core.Store
}

func NewKVCatalog(s core.Store) *KVCatalog {
	return &KVCatalog{store: s}
}

var _ core.CatalogAccessor = (*KVCatalog)(nil)

func (c *KVCatalog) ListAll(ctx context.Context) ([]*core.CatalogItem, error) {
	ids, err := c.ids(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = catalogItemPrefix + id
	}
	raw, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("catalog batch get: %w", err)
	}

	out := make([]*core.CatalogItem, 0, len(ids))
	for _, k := range keys {
		data, ok := raw[k]
		if !ok {
			// ids 与物品不一致时跳过缺失项
			continue
		}
		var item core.CatalogItem
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		out = append(out, &item)
	}
	return out, nil
}

func (c *KVCatalog) Get(ctx context.Context, id string) (*core.CatalogItem, error) {
	data, err := c.store.Get(ctx, catalogItemPrefix+id)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var item core.CatalogItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &item, nil
}

// Put 写入或覆盖物品。新物品追加到目录末尾，已有物品保持原位置。
func (c *KVCatalog) Put(ctx context.Context, items ...*core.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	kvs := make(map[string][]byte, len(items)+1)
	for _, it := range items {
		if it == nil || it.ID == "" {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: item id is required")
		}
		data, err := json.Marshal(it)
		if err != nil {
			return err
		}
		kvs[catalogItemPrefix+it.ID] = data
		if !known[it.ID] {
			known[it.ID] = true
			ids = append(ids, it.ID)
		}
	}
	idsData, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	kvs[catalogIDsKey] = idsData
	return c.store.BatchSet(ctx, kvs)
}

// Delete 删除物品；不存在时不报错。
func (c *KVCatalog) Delete(ctx context.Context, id string) error {
	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, catalogIDsKey, data); err != nil {
		return err
	}
	return c.store.Delete(ctx, catalogItemPrefix+id)
}

func (c *KVCatalog) ids(ctx context.Context) ([]string, error) {
	data, err := c.store.Get(ctx, catalogIDsKey)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog ids: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode catalog ids: %w", err)
	}
	return ids, nil
}
