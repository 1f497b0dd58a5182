package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// memcacheClient 是 gomemcache 客户端中用到的部分，便于测试替换
type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// Memcached 使用 memcached 作为缓存后端，实现了 port.Cache 接口
// 任何 memcached 错误都按未命中处理，不会让请求失败
type Memcached struct {
	client memcacheClient
	ttl    time.Duration
}

// NewMemcached 连接到 addrs 指定的 memcached 节点
func NewMemcached(ttl time.Duration, addrs ...string) *Memcached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memcached{
		client: memcache.New(addrs...),
		ttl:    ttl,
	}
}

// Get 读取条目，过期由 memcached 自己处理
func (m *Memcached) Get(ctx context.Context, key string) ([]byte, bool) {
	item, err := m.client.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Printf("⚠️ memcached 读取 %s 失败: %v", key, err)
		}
		return nil, false
	}
	return item.Value, true
}

// Set 写入条目，失败只记录日志
func (m *Memcached) Set(ctx context.Context, key string, value []byte) {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(m.ttl / time.Second),
	})
	if err != nil {
		log.Printf("⚠️ memcached 写入 %s 失败: %v", key, err)
	}
}
