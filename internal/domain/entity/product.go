package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus estado de un producto del inventario.
type ProductStatus string

// Estados válidos para Product.
const (
	ProductAvailable   ProductStatus = "available"
	ProductUnavailable ProductStatus = "unavailable"
	ProductSold        ProductStatus = "sold"
	ProductReserved    ProductStatus = "reserved"
)

// IsValid indica si el valor pertenece al conjunto cerrado de estados.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductAvailable, ProductUnavailable, ProductSold, ProductReserved:
		return true
	}
	return false
}

// Product representa una prenda o artículo del inventario.
// Quantity nunca es negativa; Status pasa a "sold" solo cuando una venta
// confirmada deja la cantidad en cero. Toda mutación de Quantity pasa por el
// ledger de inventario, nunca por el CRUD directo.
type Product struct {
	ID           string
	Name         string
	Type         string
	Code         string
	Description  string
	CostPrice    decimal.Decimal
	ProfitMargin decimal.Decimal
	SalePrice    decimal.Decimal
	Quantity     int
	Status       ProductStatus
	Reserved     bool // una venta en vuelo retiene parte del stock
	Sold         bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
