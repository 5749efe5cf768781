package store

import "github.com/rushteam/fplkit/core"

// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   r, err := NewRedisStore("localhost:6379", 0) // *RedisStore 同样实现 core.Store

// ErrNotFound 表示 key 不存在，与 core.ErrStoreNotFound 相同。
var ErrNotFound = core.ErrStoreNotFound
