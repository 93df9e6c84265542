package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado del ciclo de vida de una venta.
type SaleStatus string

// Estados válidos para Sale. El flujo normal es
// pending → delivery_scheduled → delivered; cancelled es alcanzable desde
// cualquier estado no final. No hay transición que salga de delivered ni de cancelled.
const (
	SalePending           SaleStatus = "pending"
	SaleDeliveryScheduled SaleStatus = "delivery_scheduled"
	SaleDelivered         SaleStatus = "delivered"
	SaleCancelled         SaleStatus = "cancelled"
)

// IsValid indica si el valor pertenece al conjunto cerrado de estados.
func (s SaleStatus) IsValid() bool {
	switch s {
	case SalePending, SaleDeliveryScheduled, SaleDelivered, SaleCancelled:
		return true
	}
	return false
}

// Terminal indica si el estado es final (no admite más transiciones).
func (s SaleStatus) Terminal() bool {
	return s == SaleDelivered || s == SaleCancelled
}

// Sale representa una venta con sus líneas. Se crea atómicamente junto a los
// items y el descuento de inventario; el total lo declara el caller y debe ser > 0.
type Sale struct {
	ID          string
	ClientID    string
	UserID      string
	Total       decimal.Decimal
	Status      SaleStatus
	PaymentType string
	Items       []*SaleItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleItem línea de venta. Price es el precio capturado al momento de la venta
// (inmutable: no sigue cambios futuros del precio del producto).
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}
