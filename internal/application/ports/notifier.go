package ports

import "context"

// Nombres de eventos publicados al canal de notificaciones.
const (
	EventProductCreated        = "product:created"
	EventSaleCreated           = "sale:created"
	EventSaleStatusUpdated     = "sale:status_updated"
	EventDeliveryCreated       = "delivery:created"
	EventDeliveryStatusUpdated = "delivery:status_updated"
)

// Notifier puerto de publicación de eventos de dominio. La entrega es
// best-effort: el adaptador registra el fallo y no lo propaga, y los casos de
// uso publican solo después del Commit (nunca se observa un evento de una
// venta que no quedó persistida).
type Notifier interface {
	Publish(ctx context.Context, event string, payload any)
}

// NopNotifier descarta los eventos. Útil en tests y cuando el bus está deshabilitado.
type NopNotifier struct{}

// Publish no hace nada.
func (NopNotifier) Publish(context.Context, string, any) {}
