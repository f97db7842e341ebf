package cache

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist remembers revoked token ids until the token would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func blacklistKey(jti string) string {
	return keyPrefix + "blacklist:" + jti
}

type redisBlacklist struct {
	rc *RedisClient
}

func NewRedisBlacklist(rc *RedisClient) TokenBlacklist {
	return &redisBlacklist{rc: rc}
}

func (b *redisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rc.Set(ctx, blacklistKey(jti), []byte("1"), ttl)
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.rc.Exists(ctx, blacklistKey(jti))
}

// MemoryBlacklist is used when Redis is not configured. Entries are not shared between
// processes and are lost on restart.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for k, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, k)
		}
	}
	b.entries[jti] = now.Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	return ok && b.now().Before(exp), nil
}
