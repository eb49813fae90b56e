package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
)

// DefaultSessionPrefix namespaces wizard session keys.
const DefaultSessionPrefix = "wizard:session:"

// RedisSessionRepository keeps wizard sessions as JSON documents with a
// sliding TTL; every save pushes the expiry out again.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository constructs a Redis backed session store.
func NewRedisSessionRepository(client *redis.Client, prefix string) *RedisSessionRepository {
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return &RedisSessionRepository{client: client, prefix: prefix}
}

// Load decodes session id into dest. Unknown or expired ids yield ErrSessionExpired.
func (r *RedisSessionRepository) Load(ctx context.Context, id string, dest interface{}) error {
	raw, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrSessionExpired
		}
		return fmt.Errorf("redis get session %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode session %s: %w", id, err)
	}
	return nil
}

// Save stores value under id for ttl.
func (r *RedisSessionRepository) Save(ctx context.Context, id string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.prefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", id, err)
	}
	return nil
}

// Delete removes session id. Deleting a missing session is not an error.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// Ping checks the connection for readiness probes.
func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemorySessionRepository is the single-instance session store used in
// development and tests. Entries are stored encoded so callers never share
// state with the store.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository constructs an empty in-process store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

// Load decodes session id into dest.
func (r *MemorySessionRepository) Load(_ context.Context, id string, dest interface{}) error {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if ok && !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return appErrors.ErrSessionExpired
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("decode session %s: %w", id, err)
	}
	return nil
}

// Save stores value under id. A non-positive ttl never expires.
func (r *MemorySessionRepository) Save(_ context.Context, id string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = entry
	r.sweepLocked()
	return nil
}

// Delete removes session id.
func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// Ping always succeeds.
func (r *MemorySessionRepository) Ping(context.Context) error {
	return nil
}

// Len returns the number of live sessions whose prefix matches.
func (r *MemorySessionRepository) Len(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	n := 0
	for id := range r.entries {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}

func (r *MemorySessionRepository) sweepLocked() {
	now := r.now()
	for id, entry := range r.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(r.entries, id)
		}
	}
}
