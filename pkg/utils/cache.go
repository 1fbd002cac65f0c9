package utils

import (
	"sync"
	"time"
)

// 使用 sync.Map 保证并发安全
var (
	memoryCache sync.Map
)

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      interface{}
	expiration int64
}

// SetCache 设置缓存
// 用于分类解析等变化极少的热点数据，过期后懒删除
func SetCache(key string, value interface{}, ttl time.Duration) {
	exp := time.Now().Add(ttl).UnixNano()

	memoryCache.Store(key, cacheItem{
		value:      value,
		expiration: exp,
	})
}

// GetCache 获取缓存并验证是否过期
func GetCache(key string) (interface{}, bool) {
	val, ok := memoryCache.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(cacheItem)

	// 检查是否过期
	if time.Now().UnixNano() > item.expiration {
		memoryCache.Delete(key) // 懒删除
		return nil, false
	}

	return item.value, true
}

// DeleteCache 删除缓存
func DeleteCache(key string) {
	memoryCache.Delete(key)
}
