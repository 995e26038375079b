package domain

import "time"

// User es el registro de credenciales de un operador del dashboard.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CompanyID    string    `json:"company_id,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity proyecta el usuario a la identidad de sesion.
func (u User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CompanyID: u.CompanyID,
	}
}
