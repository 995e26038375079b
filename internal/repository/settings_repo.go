package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clearscrub-admin/internal/domain"
)

// SettingsRepository guarda la configuracion de cuenta por tenant.
type SettingsRepository interface {
	Get(ctx context.Context, tenantID string) (domain.Settings, error)
	Save(ctx context.Context, tenantID string, settings domain.Settings) error
}

// PgSettingsRepository guarda el documento de settings como JSONB.
type PgSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPgSettingsRepository(pool *pgxpool.Pool) *PgSettingsRepository {
	return &PgSettingsRepository{pool: pool}
}

func (r *PgSettingsRepository) Get(ctx context.Context, tenantID string) (domain.Settings, error) {
	const query = `SELECT document FROM account_settings WHERE tenant_id = $1`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Settings{}, err
	}
	if err != nil {
		return domain.Settings{}, err
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (r *PgSettingsRepository) Save(ctx context.Context, tenantID string, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO account_settings (tenant_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tenant_id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()
	`
	_, err = r.pool.Exec(ctx, query, tenantID, raw)
	return err
}
