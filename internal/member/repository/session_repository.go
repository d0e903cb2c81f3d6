package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"realtime_chat_service/internal/member/domain"
	"realtime_chat_service/pkg/database"
)

// ErrSessionNotFound key absent or expired
var ErrSessionNotFound = errors.New("session not found")

// memorySessionRepository in-process session store with lazy TTL eviction.
// Default when no redis is configured; implements the same interface as the
// redis-backed repository.
type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	session  domain.MemberSession
	expireAt time.Time
}

// NewMemorySessionRepository create the in-memory session store
func NewMemorySessionRepository() database.RedisRepository[domain.MemberSession] {
	return &memorySessionRepository{entries: make(map[string]memoryEntry)}
}

func (r *memorySessionRepository) Set(ctx context.Context, key string, value domain.MemberSession, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = memoryEntry{session: value, expireAt: time.Now().Add(ttl)}
	return nil
}

func (r *memorySessionRepository) Get(ctx context.Context, key string) (domain.MemberSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return domain.MemberSession{}, ErrSessionNotFound
	}
	if time.Now().After(entry.expireAt) {
		delete(r.entries, key)
		return domain.MemberSession{}, ErrSessionNotFound
	}
	return entry.session, nil
}

func (r *memorySessionRepository) Del(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *memorySessionRepository) GetTTL(ctx context.Context, key string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return 0, nil
	}
	ttl := time.Until(entry.expireAt)
	if ttl <= 0 {
		delete(r.entries, key)
		return 0, nil
	}
	return int(ttl.Seconds()), nil
}

func (r *memorySessionRepository) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return ErrSessionNotFound
	}
	entry.expireAt = time.Now().Add(ttl)
	r.entries[key] = entry
	return nil
}
