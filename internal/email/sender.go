package email

import (
	"context"
	"errors"
	"time"
)

// Sender define la interfaz para avisos de seguridad de la cuenta.
type Sender interface {
	SendAPIKeyCreated(ctx context.Context, toEmail, keyName, keyPrefix string, createdAt time.Time) error
	SendAPIKeyRolled(ctx context.Context, toEmail, keyName, keyPrefix string, rolledAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendAPIKeyCreated(_ context.Context, _, _, _ string, _ time.Time) error {
	return s.err()
}

func (s *disabledSender) SendAPIKeyRolled(_ context.Context, _, _, _ string, _ time.Time) error {
	return s.err()
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
