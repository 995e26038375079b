package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clearscrub-admin/internal/domain"
)

type APIKeyRepository interface {
	List(ctx context.Context, tenantID string) ([]domain.APIKey, error)
	Get(ctx context.Context, tenantID, id string) (domain.APIKey, error)
	Create(ctx context.Context, key domain.APIKey) error
	Update(ctx context.Context, key domain.APIKey) error
	Delete(ctx context.Context, tenantID, id string) error
}

type PgAPIKeyRepository struct {
	pool *pgxpool.Pool
}

func NewPgAPIKeyRepository(pool *pgxpool.Pool) *PgAPIKeyRepository {
	return &PgAPIKeyRepository{pool: pool}
}

func (r *PgAPIKeyRepository) List(ctx context.Context, tenantID string) ([]domain.APIKey, error) {
	const query = `
		SELECT id, tenant_id, name, prefix, key_hash, created_at, last_used_at, status
		FROM api_keys
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []domain.APIKey{}
	for rows.Next() {
		var k domain.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.Prefix, &k.KeyHash, &k.CreatedAt, &k.LastUsedAt, &k.Status); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PgAPIKeyRepository) Get(ctx context.Context, tenantID, id string) (domain.APIKey, error) {
	const query = `
		SELECT id, tenant_id, name, prefix, key_hash, created_at, last_used_at, status
		FROM api_keys
		WHERE tenant_id = $1 AND id = $2
	`
	var k domain.APIKey
	err := r.pool.QueryRow(ctx, query, tenantID, id).Scan(
		&k.ID,
		&k.TenantID,
		&k.Name,
		&k.Prefix,
		&k.KeyHash,
		&k.CreatedAt,
		&k.LastUsedAt,
		&k.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.APIKey{}, err
	}
	return k, err
}

func (r *PgAPIKeyRepository) Create(ctx context.Context, key domain.APIKey) error {
	const query = `
		INSERT INTO api_keys (id, tenant_id, name, prefix, key_hash, created_at, last_used_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.TenantID,
		key.Name,
		key.Prefix,
		key.KeyHash,
		key.CreatedAt,
		key.LastUsedAt,
		key.Status,
	)
	return err
}

func (r *PgAPIKeyRepository) Update(ctx context.Context, key domain.APIKey) error {
	const query = `
		UPDATE api_keys
		SET name = $1, prefix = $2, key_hash = $3, last_used_at = $4, status = $5
		WHERE tenant_id = $6 AND id = $7
	`
	tag, err := r.pool.Exec(ctx, query,
		key.Name,
		key.Prefix,
		key.KeyHash,
		key.LastUsedAt,
		key.Status,
		key.TenantID,
		key.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgAPIKeyRepository) Delete(ctx context.Context, tenantID, id string) error {
	const query = `DELETE FROM api_keys WHERE tenant_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
