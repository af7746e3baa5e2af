package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/redis/go-redis/v9"
)

// SessionStateStore persists per-login client state keyed by session id.
type SessionStateStore interface {
	Load(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, sessionID string, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

const sessionStateKeyPrefix = "session_state"

type RedisSessionStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStateStore(client *redis.Client, ttl time.Duration) *RedisSessionStateStore {
	return &RedisSessionStateStore{client: client, ttl: ttl}
}

func (s *RedisSessionStateStore) Load(ctx context.Context, sessionID string) (*models.SessionState, error) {
	data, err := s.client.Get(ctx, sessionStateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewSessionState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	state := models.NewSessionState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	state.Normalize()
	return state, nil
}

func (s *RedisSessionStateStore) Save(ctx context.Context, sessionID string, state *models.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := s.client.Set(ctx, sessionStateKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (s *RedisSessionStateStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionStateKey(sessionID)).Err()
}

func sessionStateKey(sessionID string) string {
	return sessionStateKeyPrefix + ":" + sessionID
}

type memorySessionEntry struct {
	state     models.SessionState
	expiresAt time.Time
}

func (e memorySessionEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemorySessionStateStore keeps state in process. Used when Redis is not configured.
// Entries expire ttl after their last save, like the Redis keys; a zero ttl keeps
// them until deleted.
type MemorySessionStateStore struct {
	mu      sync.Mutex
	states  map[string]memorySessionEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewMemorySessionStateStore(ttl time.Duration) *MemorySessionStateStore {
	return &MemorySessionStateStore{
		states:  make(map[string]memorySessionEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (s *MemorySessionStateStore) Load(_ context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[sessionID]
	if !ok {
		return models.NewSessionState(), nil
	}
	if entry.expired(s.nowFunc()) {
		delete(s.states, sessionID)
		return models.NewSessionState(), nil
	}
	pinned := make([]int64, len(entry.state.PinnedUserIDs))
	copy(pinned, entry.state.PinnedUserIDs)
	return &models.SessionState{PinnedUserIDs: pinned, CurrentScreen: entry.state.CurrentScreen}, nil
}

// Save also sweeps expired entries, since abandoned sessions are never loaded again.
func (s *MemorySessionStateStore) Save(_ context.Context, sessionID string, state *models.SessionState) error {
	pinned := make([]int64, len(state.PinnedUserIDs))
	copy(pinned, state.PinnedUserIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for id, entry := range s.states {
		if entry.expired(now) {
			delete(s.states, id)
		}
	}

	entry := memorySessionEntry{state: models.SessionState{PinnedUserIDs: pinned, CurrentScreen: state.CurrentScreen}}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.states[sessionID] = entry
	return nil
}

func (s *MemorySessionStateStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *MemorySessionStateStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

type SessionStateService struct {
	store SessionStateStore
}

func NewSessionStateService(store SessionStateStore) *SessionStateService {
	return &SessionStateService{store: store}
}

func (s *SessionStateService) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrUnauthorized
	}
	return s.store.Load(ctx, sessionID)
}

func (s *SessionStateService) Replace(ctx context.Context, sessionID string, state models.SessionState) (*models.SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrUnauthorized
	}
	state.CurrentScreen = strings.TrimSpace(state.CurrentScreen)
	if state.PinnedUserIDs == nil {
		state.PinnedUserIDs = []int64{}
	}
	state.Normalize()
	if err := s.store.Save(ctx, sessionID, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SessionStateService) PinUser(ctx context.Context, sessionID string, userID int64) (*models.SessionState, error) {
	return s.update(ctx, sessionID, userID, func(state *models.SessionState) bool {
		return state.Pin(userID)
	})
}

func (s *SessionStateService) UnpinUser(ctx context.Context, sessionID string, userID int64) (*models.SessionState, error) {
	return s.update(ctx, sessionID, userID, func(state *models.SessionState) bool {
		return state.Unpin(userID)
	})
}

func (s *SessionStateService) update(ctx context.Context, sessionID string, userID int64, apply func(*models.SessionState) bool) (*models.SessionState, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !apply(state) {
		return state, nil
	}
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Initialize stores an empty state for a new login session.
func (s *SessionStateService) Initialize(ctx context.Context, sessionID string) error {
	return s.store.Save(ctx, sessionID, models.NewSessionState())
}

func (s *SessionStateService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Delete(ctx, sessionID)
}
