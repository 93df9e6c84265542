package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas. Debe invocarse dentro de la misma
// transacción que decrementa el stock: o se escribe todo o nada.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, client_id, user_id, total, status, payment_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sale.ID, sale.ClientID, sale.UserID, sale.Total, sale.Status, sale.PaymentType,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, sale.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas. Retorna nil, nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, client_id, user_id, total, status, payment_type, created_at, updated_at
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.ClientID, &s.UserID, &s.Total, &s.Status, &s.PaymentType, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.loadItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, price
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus actualiza el estado de la venta si no está en un estado final.
// El UPDATE condicional toma el lock de la fila: dos transiciones concurrentes
// se serializan ahí y la perdedora ve cero filas afectadas.
func (r *SaleRepo) UpdateStatus(saleID string, status entity.SaleStatus) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, updated_at = now()
		 WHERE id = $1 AND status NOT IN ($3, $4)`,
		saleID, status, entity.SaleDelivered, entity.SaleCancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("update sale status: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List lista ventas con paginación (más recientes primero), sin líneas.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	return r.list(`
		SELECT id, client_id, user_id, total, status, payment_type, created_at, updated_at
		FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByClient lista todas las ventas de un cliente (más recientes primero).
func (r *SaleRepo) ListByClient(clientID string) ([]*entity.Sale, error) {
	return r.list(`
		SELECT id, client_id, user_id, total, status, payment_type, created_at, updated_at
		FROM sales WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID)
}

func (r *SaleRepo) list(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ClientID, &s.UserID, &s.Total, &s.Status, &s.PaymentType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}
