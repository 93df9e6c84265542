package repository

import "github.com/jhoicas/ventas-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Create persiste la venta junto con sus items (la venta es dueña del ciclo
// de vida de las líneas).
//
// UpdateStatus es condicional: solo escribe si la venta no está en un estado
// final, y devuelve cuántas filas tocó. El conteo decide el ganador entre dos
// transiciones concurrentes; una lectura previa del estado puede quedar
// obsoleta y no sirve como guarda.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	UpdateStatus(saleID string, status entity.SaleStatus) (int64, error)
	List(limit, offset int) ([]*entity.Sale, error)
	ListByClient(clientID string) ([]*entity.Sale, error)
}
