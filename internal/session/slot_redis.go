package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 500 * time.Millisecond

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSlot guarda el snapshot de un handle de sesion en Redis.
type RedisSlot struct {
	client redisKV
	key    string
}

// NewRedisSlot crea el slot "clearscrub_user:<sid>".
func NewRedisSlot(client *redis.Client, sid string) *RedisSlot {
	return &RedisSlot{
		client: client,
		key:    SlotKey + ":" + strings.TrimSpace(sid),
	}
}

// RedisSlotFactory adapta un cliente Redis al constructor de slots del Registry.
func RedisSlotFactory(client *redis.Client) SlotFactory {
	return func(sid string) Slot {
		return NewRedisSlot(client, sid)
	}
}

func (s *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key).Err()
}
