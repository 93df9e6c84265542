package entity

import "time"

// DeliveryStatus estado de una entrega.
type DeliveryStatus string

// Estados válidos para Delivery.
const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryCompleted DeliveryStatus = "completed"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// IsValid indica si el valor pertenece al conjunto cerrado de estados.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryCompleted, DeliveryCancelled:
		return true
	}
	return false
}

// Delivery entrega asociada 1:1 a una venta no cancelada. Completarla fuerza
// la venta padre a "delivered" (eso lo hace el coordinador, no esta entidad).
type Delivery struct {
	ID        string
	SaleID    string
	Status    DeliveryStatus
	Address   string
	Date      *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
