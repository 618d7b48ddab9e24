package posting

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisClient "github.com/liftmate/liftmate/pkg/redis"
)

const draftKeyPrefix = "posting:draft:"

// DraftStore persists wizard drafts between requests. Get returns
// ErrDraftNotFound for unknown or expired drafts.
type DraftStore interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, id string) error
}

// RedisDraftStore keeps drafts as JSON with a sliding TTL, so any instance
// can serve the next wizard step
type RedisDraftStore struct {
	redis *redisClient.Client
	ttl   time.Duration
}

// NewRedisDraftStore creates a Redis backed draft store
func NewRedisDraftStore(redis *redisClient.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{redis: redis, ttl: ttl}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// Get loads a draft
func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, ok, err := s.redis.GetString(ctx, draftKey(id))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return nil, ErrDraftNotFound
	}

	var draft Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// Save stores a draft and refreshes its TTL
func (s *RedisDraftStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.redis.SetWithExpiration(ctx, draftKey(draft.ID), data, s.ttl); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Delete removes a draft
func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Delete(ctx, draftKey(id)); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

type memoryEntry struct {
	draft     Draft
	expiresAt time.Time
}

// MemoryDraftStore keeps drafts in process, for single instance deployments
// without Redis
type MemoryDraftStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	drafts map[string]memoryEntry
}

// NewMemoryDraftStore creates an in-memory draft store
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[string]memoryEntry),
	}
}

// Get loads a copy of a draft
func (s *MemoryDraftStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	draft := entry.draft
	return &draft, nil
}

// Save stores a copy of a draft
func (s *MemoryDraftStore) Save(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = memoryEntry{draft: *draft, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete removes a draft
func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}

// Sweep drops expired drafts and returns their ids
func (s *MemoryDraftStore) Sweep() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	now := s.now()
	for id, entry := range s.drafts {
		if s.ttl > 0 && now.After(entry.expiresAt) {
			expired = append(expired, id)
			delete(s.drafts, id)
		}
	}
	return expired
}
