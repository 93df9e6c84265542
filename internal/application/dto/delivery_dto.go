package dto

import "time"

// CreateDeliveryRequest entrada para agendar una entrega.
type CreateDeliveryRequest struct {
	SaleID  string     `json:"sale_id" validate:"required,uuid"`
	Address string     `json:"address" validate:"required"`
	Date    *time.Time `json:"date"`
}

// UpdateDeliveryStatusRequest cambio directo de estado de una entrega.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateDeliveryDateRequest cambio de fecha de una entrega.
type UpdateDeliveryDateRequest struct {
	Date time.Time `json:"date" validate:"required"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID        string     `json:"id"`
	SaleID    string     `json:"sale_id"`
	Status    string     `json:"status"`
	Address   string     `json:"address"`
	Date      *time.Time `json:"date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
