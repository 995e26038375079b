package auth

import (
	"context"
	"errors"
	"strings"

	"clearscrub-admin/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnreachable        = errors.New("auth backend unreachable")
	ErrTimeout            = errors.New("auth backend timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// Authenticator es el colaborador externo que verifica credenciales.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
}

// Retryable indica si el error es transitorio y el usuario puede reintentar.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnreachable) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimited)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
