package repository

import (
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// DeliveryRepository define el puerto de persistencia para Delivery.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	UpdateStatus(deliveryID string, status entity.DeliveryStatus) error
	UpdateDate(deliveryID string, date time.Time) error
	List(limit, offset int) ([]*entity.Delivery, error)
	// ListByDate lista las entregas programadas para el día calendario de day.
	ListByDate(day time.Time) ([]*entity.Delivery, error)
}
