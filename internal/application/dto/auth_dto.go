package dto

import "time"

// RegisterRequest entrada para registro: nombre, email y password en texto plano.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest entrada para rotar un refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest entrada para cerrar sesión (revoca el refresh token si existe).
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPairResponse par access/refresh emitido por login, register y refresh.
type TokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// ValidateResponse salida de la validación de un access token.
// ExpiringSoon avisa al caller que renueve preventivamente (TTL restante < 5 min).
type ValidateResponse struct {
	User         UserResponse `json:"user"`
	ExpiringSoon bool         `json:"expiring_soon"`
}
