package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// DeliveryUseCase coordina entregas con el estado de la venta padre: agendar
// mueve la venta a delivery_scheduled y completar la fuerza a delivered,
// siempre en la misma transacción que la escritura de la entrega.
type DeliveryUseCase struct {
	txRunner     TxRunner
	deliveryRepo repository.DeliveryRepository
	saleRepo     repository.SaleRepository
	notifier     ports.Notifier
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	txRunner TxRunner,
	deliveryRepo repository.DeliveryRepository,
	saleRepo repository.SaleRepository,
	notifier ports.Notifier,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner:     txRunner,
		deliveryRepo: deliveryRepo,
		saleRepo:     saleRepo,
		notifier:     notifier,
	}
}

// Schedule agenda una entrega para una venta no cancelada. Crea la entrega en
// pending y mueve la venta a delivery_scheduled en una sola unidad atómica.
func (uc *DeliveryUseCase) Schedule(ctx context.Context, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if in.SaleID == "" || in.Address == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	if sale.Status == entity.SaleCancelled {
		return nil, domain.ErrSaleCancelled
	}

	now := time.Now()
	d := &entity.Delivery{
		ID:        uuid.New().String(),
		SaleID:    in.SaleID,
		Status:    entity.DeliveryPending,
		Address:   in.Address,
		Date:      in.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.RunDelivery(ctx, func(
		deliveryRepo repository.DeliveryRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := deliveryRepo.Create(d); err != nil {
			return err
		}
		// Cero filas: la venta alcanzó un estado final después del chequeo
		// de arriba; se aborta la tx y la entrega no queda creada.
		rows, err := saleRepo.UpdateStatus(in.SaleID, entity.SaleDeliveryScheduled)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrSaleFinalized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toDeliveryResponse(d)
	uc.notifier.Publish(ctx, ports.EventDeliveryCreated, out)
	return out, nil
}

// Complete marca la entrega como completed y fuerza la venta padre a
// delivered, ambas escrituras en la misma transacción.
func (uc *DeliveryUseCase) Complete(ctx context.Context, deliveryID string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDeliveryNotFound
	}
	err = uc.txRunner.RunDelivery(ctx, func(
		deliveryRepo repository.DeliveryRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := deliveryRepo.UpdateStatus(deliveryID, entity.DeliveryCompleted); err != nil {
			return err
		}
		rows, err := saleRepo.UpdateStatus(d.SaleID, entity.SaleDelivered)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrSaleFinalized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.Status = entity.DeliveryCompleted
	out := toDeliveryResponse(d)
	uc.notifier.Publish(ctx, ports.EventDeliveryStatusUpdated, out)
	return out, nil
}

// UpdateStatus mutador directo del estado de la entrega. Valida el enum y no
// toca la venta padre (para eso está Complete).
func (uc *DeliveryUseCase) UpdateStatus(ctx context.Context, deliveryID, status string) (*dto.DeliveryResponse, error) {
	newStatus := entity.DeliveryStatus(status)
	if !newStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	d, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDeliveryNotFound
	}
	if err := uc.deliveryRepo.UpdateStatus(deliveryID, newStatus); err != nil {
		return nil, err
	}
	d.Status = newStatus
	out := toDeliveryResponse(d)
	uc.notifier.Publish(ctx, ports.EventDeliveryStatusUpdated, out)
	return out, nil
}

// UpdateDate mutador directo de la fecha de entrega.
func (uc *DeliveryUseCase) UpdateDate(ctx context.Context, deliveryID string, date time.Time) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDeliveryNotFound
	}
	if err := uc.deliveryRepo.UpdateDate(deliveryID, date); err != nil {
		return nil, err
	}
	d.Date = &date
	return toDeliveryResponse(d), nil
}

// GetByID obtiene una entrega.
func (uc *DeliveryUseCase) GetByID(ctx context.Context, deliveryID string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDeliveryNotFound
	}
	return toDeliveryResponse(d), nil
}

// List lista entregas paginadas (ordenadas por fecha).
func (uc *DeliveryUseCase) List(ctx context.Context, limit, offset int) ([]*dto.DeliveryResponse, error) {
	deliveries, err := uc.deliveryRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, toDeliveryResponse(d))
	}
	return out, nil
}

// ListByDate lista las entregas programadas para un día calendario.
func (uc *DeliveryUseCase) ListByDate(ctx context.Context, day time.Time) ([]*dto.DeliveryResponse, error) {
	deliveries, err := uc.deliveryRepo.ListByDate(day)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, toDeliveryResponse(d))
	}
	return out, nil
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	return &dto.DeliveryResponse{
		ID:        d.ID,
		SaleID:    d.SaleID,
		Status:    string(d.Status),
		Address:   d.Address,
		Date:      d.Date,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
