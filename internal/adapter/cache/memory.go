package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL 缓存有效期，固定 5 分钟
const DefaultTTL = 300 * time.Second

const sweepInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory 是进程内的 TTL 缓存，实现了 port.Cache 接口
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	nowFunc func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory 创建内存缓存，ttl <= 0 时使用 DefaultTTL
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		nowFunc: time.Now, // 便于测试注入当前时间
		stop:    make(chan struct{}),
	}
}

// SetClock 替换时钟，测试中用来模拟时间流逝
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.nowFunc = now
	m.mu.Unlock()
}

// StartJanitor 启动后台清理协程，定期删除过期条目，直到 Close 被调用
func (m *Memory) StartJanitor() {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// Close 停止后台清理协程，可以重复调用
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// Get 读取未过期的条目
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	now := m.nowFunc()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !now.Before(e.expiresAt) {
		m.mu.Lock()
		// 加写锁期间可能已被重新写入
		if cur, ok := m.entries[key]; ok && !now.Before(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set 写入条目，覆盖同名旧值
func (m *Memory) Set(ctx context.Context, key string, value []byte) {
	m.mu.Lock()
	m.entries[key] = entry{
		value:     value,
		expiresAt: m.nowFunc().Add(m.ttl),
	}
	m.mu.Unlock()
}

// Sweep 删除所有过期条目，返回删除的数量
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len 返回当前保存的条目数 (包括尚未清理的过期条目)
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
