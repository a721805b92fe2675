package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// maxRecents caps the per-client recent-selection list
const maxRecents = 10

// recentsTTL bounds how long an idle client's recents are kept
const recentsTTL = 90 * 24 * time.Hour

// RecentStore remembers a client's recent search selections,
// most-recent-first, deduplicated by entry id, capped at maxRecents.
type RecentStore interface {
	Get(ctx context.Context, clientID string) ([]Entry, error)
	Add(ctx context.Context, clientID string, entry Entry) error
}

// push prepends entry to the list, removing any earlier occurrence of the
// same id and trimming to the cap.
func push(recents []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, len(recents)+1)
	out = append(out, entry)
	for _, r := range recents {
		if r.ID == entry.ID {
			continue
		}
		out = append(out, r)
	}
	if len(out) > maxRecents {
		out = out[:maxRecents]
	}
	return out
}

// RedisRecentStore persists recents in Redis under one key per client
type RedisRecentStore struct {
	rdb *redis.Client
}

// NewRedisRecentStore connects to Redis and verifies the connection
func NewRedisRecentStore(redisURL string) (*RedisRecentStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRecentStore{rdb: rdb}, nil
}

func recentsKey(clientID string) string {
	return "admin-recent-searches:" + clientID
}

// Get returns the client's recent selections, most recent first
func (s *RedisRecentStore) Get(ctx context.Context, clientID string) ([]Entry, error) {
	val, err := s.rdb.Get(ctx, recentsKey(clientID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recent searches: %w", err)
	}

	var recents []Entry
	if err := json.Unmarshal([]byte(val), &recents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recent searches: %w", err)
	}
	return recents, nil
}

// Add records a selection for the client
func (s *RedisRecentStore) Add(ctx context.Context, clientID string, entry Entry) error {
	recents, err := s.Get(ctx, clientID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(push(recents, entry))
	if err != nil {
		return fmt.Errorf("failed to marshal recent searches: %w", err)
	}
	return s.rdb.Set(ctx, recentsKey(clientID), data, recentsTTL).Err()
}

// Close closes the Redis connection
func (s *RedisRecentStore) Close() error {
	return s.rdb.Close()
}

// MemoryRecentStore is an in-process fallback used when REDIS_URL is not
// configured (local development) and in tests.
type MemoryRecentStore struct {
	mu      sync.Mutex
	recents map[string][]Entry
}

// NewMemoryRecentStore creates an empty in-memory store
func NewMemoryRecentStore() *MemoryRecentStore {
	return &MemoryRecentStore{recents: make(map[string][]Entry)}
}

// Get returns the client's recent selections, most recent first
func (s *MemoryRecentStore) Get(_ context.Context, clientID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.recents[clientID]...), nil
}

// Add records a selection for the client
func (s *MemoryRecentStore) Add(_ context.Context, clientID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recents[clientID] = push(s.recents[clientID], entry)
	return nil
}
