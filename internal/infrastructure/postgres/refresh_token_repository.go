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

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo implementación de RefreshTokenRepository sobre PostgreSQL
// (usable con pool o tx). El valor del token tiene constraint único.
type RefreshTokenRepo struct {
	q Querier
}

// NewRefreshTokenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRefreshTokenRepository(q Querier) *RefreshTokenRepo {
	return &RefreshTokenRepo{q: q}
}

// Create persiste un refresh token nuevo.
func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// GetByToken busca un registro por el valor del token.
func (r *RefreshTokenRepo) GetByToken(token string) (*entity.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens WHERE token = $1`
	var t entity.RefreshToken
	err := r.q.QueryRow(context.Background(), query, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &t, nil
}

// DeleteByToken elimina el registro y devuelve cuántas filas tocó. El conteo
// decide el ganador entre dos rotaciones concurrentes del mismo token.
func (r *RefreshTokenRepo) DeleteByToken(token string) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return 0, fmt.Errorf("delete refresh token: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteByUser elimina todos los tokens de un usuario (logout global).
func (r *RefreshTokenRepo) DeleteByUser(userID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens by user: %w", err)
	}
	return nil
}

// PruneStale elimina los tokens del usuario ya expirados o con más de 30 días.
func (r *RefreshTokenRepo) PruneStale(userID string, now time.Time) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1 AND (expires_at <= $2 OR created_at <= $3)`
	_, err := r.q.Exec(context.Background(), query, userID, now, now.Add(-30*24*time.Hour))
	if err != nil {
		return fmt.Errorf("prune refresh tokens: %w", err)
	}
	return nil
}
