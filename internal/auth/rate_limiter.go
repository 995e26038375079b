package auth

import (
	"context"
	"sync"
	"time"

	"clearscrub-admin/internal/domain"
)

// AttemptLimiter limita los intentos de login por clave.
type AttemptLimiter interface {
	Allow(key string) bool
}

// RateLimitedAuthenticator aplica un AttemptLimiter por email antes de delegar.
type RateLimitedAuthenticator struct {
	next    Authenticator
	limiter AttemptLimiter
}

func NewRateLimitedAuthenticator(next Authenticator, limiter AttemptLimiter) *RateLimitedAuthenticator {
	return &RateLimitedAuthenticator{next: next, limiter: limiter}
}

func (a *RateLimitedAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	key := normalizeEmail(email)
	if key != "" && a.limiter != nil && !a.limiter.Allow(key) {
		return domain.Identity{}, ErrRateLimited
	}
	return a.next.Authenticate(ctx, email, password)
}

type memoryAttemptLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time

	lastSweep time.Time
}

// NewMemoryAttemptLimiter crea un limitador de ventana deslizante en memoria.
func NewMemoryAttemptLimiter(window time.Duration, max int) AttemptLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryAttemptLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *memoryAttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}

// sweep borra las claves sin intentos dentro de la ventana.
func (l *memoryAttemptLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		if len(entries) == 0 || !entries[len(entries)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}
