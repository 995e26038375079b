package auth

import (
	"context"
	"errors"
	"testing"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/repository"
)

type failingUserRepo struct {
	err error
}

func (r failingUserRepo) Create(context.Context, domain.User) error { return r.err }
func (r failingUserRepo) GetByID(context.Context, string) (domain.User, error) {
	return domain.User{}, r.err
}
func (r failingUserRepo) GetByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, r.err
}

func seededAuthenticator(t *testing.T) *RepositoryAuthenticator {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	_, err := EnsureUser(context.Background(), users, SeedUserInput{
		Email:    "Demo@ClearScrub.io",
		Password: "demo123",
		Name:     "Demo User",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewRepositoryAuthenticator(nil, users)
}

func TestRepositoryAuthenticatorSuccess(t *testing.T) {
	a := seededAuthenticator(t)

	identity, err := a.Authenticate(context.Background(), " demo@clearscrub.io ", "demo123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Name != "Demo User" || identity.Email != "demo@clearscrub.io" || identity.ID == "" {
		t.Fatalf("unexpected identity: %#v", identity)
	}
}

func TestRepositoryAuthenticatorInvalidCredentials(t *testing.T) {
	a := seededAuthenticator(t)
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "demo@clearscrub.io", "nope"},
		{"unknown email", "ghost@clearscrub.io", "demo123"},
		{"empty email", "", "demo123"},
		{"empty password", "demo@clearscrub.io", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestRepositoryAuthenticatorTimeout(t *testing.T) {
	a := NewRepositoryAuthenticator(nil, failingUserRepo{err: context.DeadlineExceeded})
	_, err := a.Authenticate(context.Background(), "demo@clearscrub.io", "demo123")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	input := SeedUserInput{Email: "ops@clearscrub.io", Password: "s3cret", CompanyID: " pars "}

	first, err := EnsureUser(context.Background(), users, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.PasswordHash == "" || first.PasswordHash == "s3cret" {
		t.Fatalf("expected hashed password")
	}
	if first.Name != "ops@clearscrub.io" || first.CompanyID != "pars" {
		t.Fatalf("unexpected defaults: %#v", first)
	}

	second, err := EnsureUser(context.Background(), users, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing user to be reused")
	}

	if _, err := EnsureUser(context.Background(), users, SeedUserInput{Email: "x@y.z"}); err == nil {
		t.Fatalf("expected error without password")
	}
}
