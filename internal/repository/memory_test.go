package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"clearscrub-admin/internal/domain"
)

func TestMemoryUserRepositoryCaseInsensitiveEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, domain.User{ID: "1", Email: "Demo@ClearScrub.io", Name: "Demo User"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := repo.GetByEmail(ctx, "demo@clearscrub.io")
	if err != nil || user.ID != "1" {
		t.Fatalf("expected user, got %+v %v", user, err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@clearscrub.io"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestMemoryAPIKeyRepositorySeedsPerTenant(t *testing.T) {
	repo := NewMemoryAPIKeyRepository(true)
	ctx := context.Background()

	keys, err := repo.List(ctx, "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 3 || keys[0].TenantID != "acme" {
		t.Fatalf("unexpected seeded keys: %+v", keys)
	}
	if !keys[0].CreatedAt.After(keys[1].CreatedAt) {
		t.Fatalf("expected newest first")
	}

	if err := repo.Delete(ctx, "acme", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if other, _ := repo.List(ctx, DefaultTenant); len(other) != 3 {
		t.Fatalf("expected other tenant untouched, got %d", len(other))
	}
	if err := repo.Update(ctx, domain.APIKey{ID: "1", TenantID: "acme"}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows on update of deleted key, got %v", err)
	}

	empty := NewMemoryAPIKeyRepository(false)
	if keys, _ := empty.List(ctx, "acme"); len(keys) != 0 {
		t.Fatalf("expected no keys without seed, got %d", len(keys))
	}
}

func TestMemorySettingsRepositoryIsolatesCopies(t *testing.T) {
	repo := NewMemorySettingsRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, DefaultTenant); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows before save, got %v", err)
	}

	settings := DefaultSettings()
	if err := repo.Save(ctx, DefaultTenant, settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	settings.StateSuppressions[0] = "mutated"

	stored, err := repo.Get(ctx, DefaultTenant)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.StateSuppressions[0] != "California" {
		t.Fatalf("expected stored copy to be isolated, got %q", stored.StateSuppressions[0])
	}
}

func TestMemoryCompanyRepository(t *testing.T) {
	repo := NewMemoryCompanyRepository()
	ctx := context.Background()

	companies, err := repo.List(ctx)
	if err != nil || len(companies) != 3 {
		t.Fatalf("unexpected list: %d %v", len(companies), err)
	}
	if _, err := repo.GetDetail(ctx, "unknown"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}
