package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/email"
	"clearscrub-admin/internal/repository"
)

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrInvalidKeyName = errors.New("invalid api key name")
)

const (
	apiKeyPrefix      = "cs_live_"
	apiKeyRandomBytes = 16
	apiKeyVisibleHex  = 4
	maxAPIKeyNameLen  = 100
)

// CreatedAPIKey devuelve el secreto en claro una unica vez.
type CreatedAPIKey struct {
	Key    domain.APIKey `json:"api_key"`
	Secret string        `json:"secret"`
}

// APIKeyService emite, rota y revoca llaves de API por tenant.
type APIKeyService struct {
	logger   *zap.Logger
	keys     repository.APIKeyRepository
	notifier email.Sender
}

func NewAPIKeyService(logger *zap.Logger, keys repository.APIKeyRepository, notifier email.Sender) *APIKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyService{
		logger:   logger,
		keys:     keys,
		notifier: notifier,
	}
}

func (s *APIKeyService) List(ctx context.Context, identity domain.Identity) ([]domain.APIKey, error) {
	return s.keys.List(ctx, TenantOf(identity))
}

func (s *APIKeyService) Create(ctx context.Context, identity domain.Identity, name string) (CreatedAPIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxAPIKeyNameLen {
		return CreatedAPIKey{}, ErrInvalidKeyName
	}

	secret, err := generateAPIKey()
	if err != nil {
		return CreatedAPIKey{}, err
	}
	key := domain.APIKey{
		ID:        uuid.NewString(),
		TenantID:  TenantOf(identity),
		Name:      name,
		Prefix:    displayPrefix(secret),
		KeyHash:   domain.HashAPIKey(secret),
		CreatedAt: time.Now().UTC(),
		Status:    domain.APIKeyActive,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return CreatedAPIKey{}, err
	}

	s.notifyCreated(ctx, identity, key)
	return CreatedAPIKey{Key: key, Secret: secret}, nil
}

// Revoke deja la llave inactiva; el registro se conserva.
func (s *APIKeyService) Revoke(ctx context.Context, identity domain.Identity, id string) (domain.APIKey, error) {
	return s.setStatus(ctx, identity, id, domain.APIKeyInactive)
}

// Activate reactiva una llave revocada con el mismo secreto.
func (s *APIKeyService) Activate(ctx context.Context, identity domain.Identity, id string) (domain.APIKey, error) {
	return s.setStatus(ctx, identity, id, domain.APIKeyActive)
}

func (s *APIKeyService) setStatus(ctx context.Context, identity domain.Identity, id string, status domain.APIKeyStatus) (domain.APIKey, error) {
	key, err := s.get(ctx, identity, id)
	if err != nil {
		return domain.APIKey{}, err
	}
	key.Status = status
	if err := s.update(ctx, key); err != nil {
		return domain.APIKey{}, err
	}
	return key, nil
}

// Roll reemplaza el secreto conservando id y nombre.
func (s *APIKeyService) Roll(ctx context.Context, identity domain.Identity, id string) (CreatedAPIKey, error) {
	key, err := s.get(ctx, identity, id)
	if err != nil {
		return CreatedAPIKey{}, err
	}
	secret, err := generateAPIKey()
	if err != nil {
		return CreatedAPIKey{}, err
	}
	key.Prefix = displayPrefix(secret)
	key.KeyHash = domain.HashAPIKey(secret)
	key.LastUsedAt = nil
	key.Status = domain.APIKeyActive
	if err := s.update(ctx, key); err != nil {
		return CreatedAPIKey{}, err
	}

	s.notifyRolled(ctx, identity, key, time.Now().UTC())
	return CreatedAPIKey{Key: key, Secret: secret}, nil
}

func (s *APIKeyService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	err := s.keys.Delete(ctx, TenantOf(identity), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAPIKeyNotFound
	}
	return err
}

func (s *APIKeyService) get(ctx context.Context, identity domain.Identity, id string) (domain.APIKey, error) {
	key, err := s.keys.Get(ctx, TenantOf(identity), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.APIKey{}, ErrAPIKeyNotFound
		}
		return domain.APIKey{}, err
	}
	return key, nil
}

func (s *APIKeyService) update(ctx context.Context, key domain.APIKey) error {
	err := s.keys.Update(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAPIKeyNotFound
	}
	return err
}

func (s *APIKeyService) notifyCreated(ctx context.Context, identity domain.Identity, key domain.APIKey) {
	if s.notifier == nil || identity.Email == "" {
		return
	}
	if err := s.notifier.SendAPIKeyCreated(ctx, identity.Email, key.Name, key.Prefix, key.CreatedAt); err != nil {
		s.logger.Warn("send api key notice failed", zap.Error(err), zap.String("key_id", key.ID))
	}
}

func (s *APIKeyService) notifyRolled(ctx context.Context, identity domain.Identity, key domain.APIKey, rolledAt time.Time) {
	if s.notifier == nil || identity.Email == "" {
		return
	}
	if err := s.notifier.SendAPIKeyRolled(ctx, identity.Email, key.Name, key.Prefix, rolledAt); err != nil {
		s.logger.Warn("send api key roll notice failed", zap.Error(err), zap.String("key_id", key.ID))
	}
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

func displayPrefix(secret string) string {
	n := len(apiKeyPrefix) + apiKeyVisibleHex
	if len(secret) < n {
		return secret
	}
	return secret[:n] + "..."
}
