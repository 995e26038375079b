package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type APIKeyStatus string

const (
	APIKeyActive   APIKeyStatus = "active"
	APIKeyInactive APIKeyStatus = "inactive"
)

// APIKey nunca guarda el secreto en claro, solo su hash y un prefijo visible.
type APIKey struct {
	ID         string       `json:"id"`
	TenantID   string       `json:"-"`
	Name       string       `json:"name"`
	Prefix     string       `json:"prefix"`
	KeyHash    string       `json:"-"`
	CreatedAt  time.Time    `json:"created_at"`
	LastUsedAt *time.Time   `json:"last_used,omitempty"`
	Status     APIKeyStatus `json:"status"`
}

// HashAPIKey es el hash con el que se guarda y se busca un secreto.
func HashAPIKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
