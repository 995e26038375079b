package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisAttemptAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisAttemptLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisAttemptLimiter comparte el conteo de intentos entre replicas.
func NewRedisAttemptLimiter(client *redis.Client, window time.Duration, max int) AttemptLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisAttemptLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "login:rl:",
	}
}

// Allow falla abierto si Redis no responde.
func (l *redisAttemptLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAttemptAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
