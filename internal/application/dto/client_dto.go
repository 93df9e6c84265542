package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// UpdateClientRequest entrada para actualizar un cliente.
type UpdateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// ClientResponse salida de un cliente. Sales solo viene poblado en el detalle
// (GetByID), no en listados ni búsquedas.
type ClientResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Phone     string              `json:"phone,omitempty"`
	Email     string              `json:"email,omitempty"`
	Address   string              `json:"address,omitempty"`
	Sales     []ClientSaleSummary `json:"sales,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ClientSaleSummary resumen de una venta dentro del historial de un cliente.
type ClientSaleSummary struct {
	ID          string          `json:"id"`
	Total       decimal.Decimal `json:"total"`
	PaymentType string          `json:"payment_type,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
