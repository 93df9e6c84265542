package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador de persistencia para entregas.
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una nueva entrega. La restricción UNIQUE sobre sale_id
// garantiza a lo sumo una entrega por venta.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO deliveries (id, sale_id, address, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		delivery.ID, delivery.SaleID, delivery.Address, delivery.Date,
		delivery.Status, delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID. Retorna nil, nil si no existe.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), `
		SELECT id, sale_id, address, date, status, created_at, updated_at
		FROM deliveries WHERE id = $1`, id,
	).Scan(&d.ID, &d.SaleID, &d.Address, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// UpdateStatus actualiza el estado de la entrega.
func (r *DeliveryRepo) UpdateStatus(deliveryID string, status entity.DeliveryStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE deliveries SET status = $2, updated_at = now() WHERE id = $1`,
		deliveryID, status,
	)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	return nil
}

// UpdateDate reprograma la fecha de la entrega.
func (r *DeliveryRepo) UpdateDate(deliveryID string, date time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE deliveries SET date = $2, updated_at = now() WHERE id = $1`,
		deliveryID, date,
	)
	if err != nil {
		return fmt.Errorf("update delivery date: %w", err)
	}
	return nil
}

// List lista entregas con paginación (más recientes primero).
func (r *DeliveryRepo) List(limit, offset int) ([]*entity.Delivery, error) {
	return r.list(`
		SELECT id, sale_id, address, date, status, created_at, updated_at
		FROM deliveries ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByDate lista las entregas programadas para un día calendario.
func (r *DeliveryRepo) ListByDate(day time.Time) ([]*entity.Delivery, error) {
	return r.list(`
		SELECT id, sale_id, address, date, status, created_at, updated_at
		FROM deliveries WHERE date::date = $1::date ORDER BY date ASC`, day)
}

func (r *DeliveryRepo) list(query string, args ...any) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.SaleID, &d.Address, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
