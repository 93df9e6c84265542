package inventory

import (
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Ledger es el único camino de mutación de cantidades de producto.
// CheckAvailability es una lectura previa para fallar rápido; la garantía real
// la dan las variantes *InTx, que re-verifican sobre la fila bloqueada
// (SELECT FOR UPDATE) dentro de la misma transacción que escribe la venta.
// Así no existe ventana entre chequeo y descuento: dos ventas concurrentes por
// la última unidad se serializan en el lock y solo una confirma.
type Ledger struct {
	productRepo repository.ProductRepository
}

// NewLedger construye el ledger con el repositorio de lectura (pool).
func NewLedger(productRepo repository.ProductRepository) *Ledger {
	return &Ledger{productRepo: productRepo}
}

// CheckAvailability verifica stock sin efectos. Devuelve un StockError que
// nombra el producto si no existe o no alcanza la cantidad.
func (l *Ledger) CheckAvailability(productID string, quantity int) error {
	if productID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := l.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.StockError{ProductID: productID, Err: domain.ErrProductNotFound}
	}
	if product.Quantity < quantity {
		return &domain.StockError{
			ProductID:   productID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Quantity,
			Err:         domain.ErrInsufficientStock,
		}
	}
	return nil
}

// CommitDecrementInTx descuenta cantidad sobre la fila bloqueada. productRepo
// debe estar atado a la transacción del caller. Re-verifica el stock bajo el
// lock (la lectura previa pudo quedar obsoleta por consumo concurrente) y deja
// el estado en "sold" cuando la cantidad resultante es exactamente cero.
func (l *Ledger) CommitDecrementInTx(productRepo repository.ProductRepository, productID string, quantity int) error {
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.StockError{ProductID: productID, Err: domain.ErrProductNotFound}
	}
	if product.Quantity < quantity {
		return &domain.StockError{
			ProductID:   productID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Quantity,
			Err:         domain.ErrInsufficientStock,
		}
	}
	newQty := product.Quantity - quantity
	status := entity.ProductAvailable
	sold := false
	if newQty == 0 {
		status = entity.ProductSold
		sold = true
	}
	return productRepo.UpdateStock(productID, newQty, status, sold)
}

// RestoreInTx devuelve cantidad al stock (cancelación de venta). Inverso de
// CommitDecrementInTx: un producto en "sold" vuelve a "available".
func (l *Ledger) RestoreInTx(productRepo repository.ProductRepository, productID string, quantity int) error {
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.StockError{ProductID: productID, Err: domain.ErrProductNotFound}
	}
	return productRepo.UpdateStock(productID, product.Quantity+quantity, entity.ProductAvailable, false)
}
