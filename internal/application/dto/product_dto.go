package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Type         string          `json:"type" validate:"required"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	Reserved     bool            `json:"reserved"`
	Sold         bool            `json:"sold"`
}

// UpdateProductRequest entrada para actualizar un producto. No toca Quantity
// (eso va por el endpoint de stock o por el ledger de ventas).
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	SalePrice    decimal.Decimal `json:"sale_price"`
}

// UpdateStockRequest setter absoluto de cantidad (ajuste manual de inventario).
type UpdateStockRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// UpdateProductStatusRequest cambio directo de estado.
type UpdateProductStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Code         string          `json:"code,omitempty"`
	Description  string          `json:"description,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Quantity     int             `json:"quantity"`
	Status       string          `json:"status"`
	Reserved     bool            `json:"reserved"`
	Sold         bool            `json:"sold"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
