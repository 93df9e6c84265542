package repository

import "github.com/jhoicas/ventas-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y solo tiene sentido dentro
// de una transacción; es la base de la atomicidad chequeo+descuento del ledger.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, quantity int, status entity.ProductStatus, sold bool) error
	UpdateStatus(productID string, status entity.ProductStatus) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
