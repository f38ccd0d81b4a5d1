// Package store 提供 core.Store / core.KeyValueStore 的实现，以及建立在其上的
// 目录与用户信号访问器。接口定义在 core 包。
//
//	kv := store.NewMemoryStore()
//	catalog := store.NewKVCatalog(kv)
//	signals := store.NewKVSignals(kv)
package store
