package auth

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el
// repositorio de refresh tokens atado a esa tx. La rotación (consumir el token
// viejo + persistir el nuevo) debe ser una sola unidad atómica.
type TxRunner interface {
	RunAuth(ctx context.Context, fn func(tokenRepo repository.RefreshTokenRepository) error) error
}
