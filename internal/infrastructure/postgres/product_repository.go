package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, type, code, description, cost_price, profit_margin, sale_price, quantity, status, reserved, sold, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Type, product.Code, product.Description,
		product.CostPrice, product.ProfitMargin, product.SalePrice, product.Quantity,
		product.Status, product.Reserved, product.Sold, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.get(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción: serializa las mutaciones de
// stock concurrentes sobre el mismo producto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.get(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.Code, &p.Description, &p.CostPrice, &p.ProfitMargin,
		&p.SalePrice, &p.Quantity, &p.Status, &p.Reserved, &p.Sold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos descriptivos y de precio. No toca Quantity ni
// Status (van por UpdateStock/UpdateStatus).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, type = $3, code = $4, description = $5,
			cost_price = $6, profit_margin = $7, sale_price = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Type, product.Code, product.Description,
		product.CostPrice, product.ProfitMargin, product.SalePrice, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe cantidad, estado y bandera sold en una sola sentencia
// (el ledger la invoca sobre la fila ya bloqueada).
func (r *ProductRepo) UpdateStock(productID string, quantity int, status entity.ProductStatus, sold bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2, status = $3, sold = $4, updated_at = now() WHERE id = $1`,
		productID, quantity, status, sold,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateStatus actualiza solo el estado del producto.
func (r *ProductRepo) UpdateStatus(productID string, status entity.ProductStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1`,
		productID, status,
	)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

// List lista productos con paginación (más recientes primero).
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Code, &p.Description, &p.CostPrice,
			&p.ProfitMargin, &p.SalePrice, &p.Quantity, &p.Status, &p.Reserved, &p.Sold,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
