package domain

import "strings"

// Identity es el sujeto autenticado de una sesion.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
}

// Valid indica si la identidad tiene los campos obligatorios.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ID) != "" &&
		strings.TrimSpace(i.Email) != "" &&
		strings.TrimSpace(i.Name) != ""
}
