package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"clearscrub-admin/internal/domain"
)

var ErrCorruptSession = errors.New("corrupt session snapshot")

type snapshot struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
}

// EncodeSnapshot serializa la identidad tal como se guarda en el slot.
func EncodeSnapshot(identity domain.Identity) ([]byte, error) {
	if !identity.Valid() {
		return nil, ErrIncompleteIdentity
	}
	return json.Marshal(snapshot{
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		CompanyID: identity.CompanyID,
	})
}

// DecodeSnapshot valida el snapshot; cualquier desvio de forma es ErrCorruptSession.
func DecodeSnapshot(data []byte) (domain.Identity, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Identity{}, fmt.Errorf("%w: trailing data", ErrCorruptSession)
	}

	identity := domain.Identity{
		ID:        snap.ID,
		Email:     snap.Email,
		Name:      snap.Name,
		CompanyID: snap.CompanyID,
	}
	if !identity.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: missing required fields", ErrCorruptSession)
	}
	return identity, nil
}
