package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/repository"
)

var (
	ErrInvalidSuppression = errors.New("invalid suppression")
	ErrInvalidWebhookURL  = errors.New("invalid webhook url")
	ErrWebhookNotFound    = errors.New("webhook not found")
)

// SuppressionKind distingue las dos listas de supresion.
type SuppressionKind string

const (
	SuppressionState    SuppressionKind = "state"
	SuppressionIndustry SuppressionKind = "industry"
)

type SettingsService struct {
	logger   *zap.Logger
	settings repository.SettingsRepository
}

func NewSettingsService(logger *zap.Logger, settings repository.SettingsRepository) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{logger: logger, settings: settings}
}

// Get devuelve los settings del tenant; si nunca se guardaron, los valores por defecto.
func (s *SettingsService) Get(ctx context.Context, identity domain.Identity) (domain.Settings, error) {
	settings, err := s.settings.Get(ctx, TenantOf(identity))
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.Webhooks == nil {
		settings.Webhooks = []domain.Webhook{}
	}
	return settings, nil
}

// AddSuppression agrega un valor; duplicados (sin distinguir mayusculas) son no-op.
func (s *SettingsService) AddSuppression(ctx context.Context, identity domain.Identity, kind SuppressionKind, value string) (domain.Settings, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.Settings{}, ErrInvalidSuppression
	}
	return s.mutate(ctx, identity, func(settings *domain.Settings) error {
		list, err := suppressionList(settings, kind)
		if err != nil {
			return err
		}
		for _, existing := range *list {
			if strings.EqualFold(existing, value) {
				return nil
			}
		}
		*list = append(*list, value)
		return nil
	})
}

// RemoveSuppression quita un valor; si no existe es no-op.
func (s *SettingsService) RemoveSuppression(ctx context.Context, identity domain.Identity, kind SuppressionKind, value string) (domain.Settings, error) {
	value = strings.TrimSpace(value)
	return s.mutate(ctx, identity, func(settings *domain.Settings) error {
		list, err := suppressionList(settings, kind)
		if err != nil {
			return err
		}
		kept := (*list)[:0]
		for _, existing := range *list {
			if !strings.EqualFold(existing, value) {
				kept = append(kept, existing)
			}
		}
		*list = kept
		return nil
	})
}

func (s *SettingsService) AddWebhook(ctx context.Context, identity domain.Identity, rawURL string) (domain.Webhook, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return domain.Webhook{}, ErrInvalidWebhookURL
	}

	hook := domain.Webhook{
		ID:        uuid.NewString(),
		URL:       parsed.String(),
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.mutate(ctx, identity, func(settings *domain.Settings) error {
		settings.Webhooks = append(settings.Webhooks, hook)
		return nil
	})
	if err != nil {
		return domain.Webhook{}, err
	}
	return hook, nil
}

func (s *SettingsService) RemoveWebhook(ctx context.Context, identity domain.Identity, id string) error {
	_, err := s.mutate(ctx, identity, func(settings *domain.Settings) error {
		for i, hook := range settings.Webhooks {
			if hook.ID == id {
				settings.Webhooks = append(settings.Webhooks[:i], settings.Webhooks[i+1:]...)
				return nil
			}
		}
		return ErrWebhookNotFound
	})
	return err
}

func (s *SettingsService) mutate(ctx context.Context, identity domain.Identity, fn func(*domain.Settings) error) (domain.Settings, error) {
	settings, err := s.Get(ctx, identity)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := fn(&settings); err != nil {
		return domain.Settings{}, err
	}
	if err := s.settings.Save(ctx, TenantOf(identity), settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func suppressionList(settings *domain.Settings, kind SuppressionKind) (*[]string, error) {
	switch kind {
	case SuppressionState:
		return &settings.StateSuppressions, nil
	case SuppressionIndustry:
		return &settings.IndustrySuppressions, nil
	default:
		return nil, ErrInvalidSuppression
	}
}
