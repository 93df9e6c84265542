package repository

import (
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// RefreshTokenRepository define el puerto de persistencia para los refresh tokens.
// DeleteByToken devuelve la cantidad de filas eliminadas: el consumo en la rotación
// es un único DELETE y el conteo decide quién ganó entre llamadas concurrentes.
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByToken(token string) (*entity.RefreshToken, error)
	DeleteByToken(token string) (int64, error)
	DeleteByUser(userID string) error
	// PruneStale elimina los tokens del usuario ya expirados o con más de 30 días.
	PruneStale(userID string, now time.Time) error
}
