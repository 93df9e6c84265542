package delivery

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de entregas y ventas atados a esa tx. Agendar y completar una
// entrega mutan la entrega y la venta padre como una sola unidad atómica.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		deliveryRepo repository.DeliveryRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
