package auth

import (
	"sync"
	"time"

	"github.com/blues/taskhub/internal/model"
)

// cacheEntry 单条缓存
type cacheEntry struct {
	user      *model.User
	expiresAt time.Time
}

// TokenCache 令牌到用户的有界缓存。
// 读取时检查TTL，写入超出容量时淘汰最早过期的条目，容量固定不会无限增长。
type TokenCache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	ttl      time.Duration
	capacity int
}

// NewTokenCache 创建令牌缓存
func NewTokenCache(ttl time.Duration, capacity int) *TokenCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &TokenCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
	}
}

// Get 读取缓存，过期条目当作不存在并顺手删除
func (c *TokenCache) Get(token string) (*model.User, bool) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return nil, false
	}
	return entry.user, true
}

// Put 写入缓存，满时先清过期条目，仍满则淘汰最早过期的一条
func (c *TokenCache) Put(token string, user *model.User) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.capacity {
		for key, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
	}
	if len(c.entries) >= c.capacity {
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[token] = cacheEntry{user: user, expiresAt: now.Add(c.ttl)}
}

// Invalidate 删除指定令牌
func (c *TokenCache) Invalidate(token string) {
	c.mu.Lock()
	delete(c.entries, token)
	c.mu.Unlock()
}

// Len 当前缓存条目数
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
