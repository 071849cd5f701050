package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoomSlotKey is the key the active room id is remembered under
const RoomSlotKey = "currentRoomId"

// ErrSlotEmpty is returned by Load when nothing is stored
var ErrSlotEmpty = errors.New("room slot is empty")

// RoomSlot remembers the active room id across reloads of the client
type RoomSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, roomID string) error
	Clear(ctx context.Context) error
}

// MemorySlot keeps the room id for the life of the process
type MemorySlot struct {
	mu    sync.Mutex
	value string
}

func (s *MemorySlot) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == "" {
		return "", ErrSlotEmpty
	}
	return s.value, nil
}

func (s *MemorySlot) Save(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = roomID
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}

// RedisSlot stores the room id in Redis under a per-user key. The TTL keeps
// it to one play session.
type RedisSlot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisSlot creates a slot namespaced by the local user id
func NewRedisSlot(client *redis.Client, userID int64, ttl time.Duration) *RedisSlot {
	return &RedisSlot{
		client: client,
		key:    fmt.Sprintf("alias:%d:%s", userID, RoomSlotKey),
		ttl:    ttl,
	}
}

// Key returns the Redis key used by the slot
func (s *RedisSlot) Key() string {
	return s.key
}

func (s *RedisSlot) Load(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("load room slot: %w", err)
	}
	return v, nil
}

func (s *RedisSlot) Save(ctx context.Context, roomID string) error {
	if err := s.client.Set(ctx, s.key, roomID, s.ttl).Err(); err != nil {
		return fmt.Errorf("save room slot: %w", err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear room slot: %w", err)
	}
	return nil
}
