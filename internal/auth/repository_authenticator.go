package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/repository"
)

// RepositoryAuthenticator valida contra hashes bcrypt guardados en el repositorio de usuarios.
type RepositoryAuthenticator struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewRepositoryAuthenticator(logger *zap.Logger, users repository.UserRepository) *RepositoryAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryAuthenticator{logger: logger, users: users}
}

func (a *RepositoryAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	if a.users == nil {
		return domain.Identity{}, errors.New("authenticator not configured")
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Identity{}, ErrTimeout
		}
		return domain.Identity{}, err
	}
	if user.PasswordHash == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return user.Identity(), nil
}

// SeedUserInput describe un operador creado al arrancar desde configuracion.
type SeedUserInput struct {
	Email     string
	Password  string
	Name      string
	CompanyID string
}

// EnsureUser crea el usuario si no existe. Las credenciales vienen de configuracion,
// nunca del binario.
func EnsureUser(ctx context.Context, users repository.UserRepository, input SeedUserInput) (domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return domain.User{}, errors.New("seed user requires email and password")
	}

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = email
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		CompanyID:    strings.TrimSpace(input.CompanyID),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
