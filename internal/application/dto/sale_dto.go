package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta en la creación.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// CreateSaleRequest entrada para crear una venta.
type CreateSaleRequest struct {
	ClientID    string            `json:"client_id" validate:"required,uuid"`
	Items       []SaleItemRequest `json:"products" validate:"required,min=1,dive"`
	Total       decimal.Decimal   `json:"total"`
	PaymentType string            `json:"payment_type"`
}

// UpdateSaleStatusRequest cambio de estado de una venta.
type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SaleItemResponse línea de venta en la salida.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID          string             `json:"id"`
	ClientID    string             `json:"client_id"`
	UserID      string             `json:"user_id"`
	Total       decimal.Decimal    `json:"total"`
	Status      string             `json:"status"`
	PaymentType string             `json:"payment_type,omitempty"`
	Items       []SaleItemResponse `json:"products"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
