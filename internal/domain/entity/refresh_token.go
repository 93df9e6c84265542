package entity

import "time"

// RefreshToken es un registro de rotación: cada valor es de un solo uso y se
// reemplaza al consumirse. Un usuario puede tener varios vivos (una sesión cada uno).
// Invariante: el valor del token es único en toda la tabla.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si el token ya pasó su fecha de expiración.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
