package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de violación de constraint único.
const pgUniqueViolation = "23505"

// isUniqueViolation detecta el choque con un índice único (email de usuario,
// valor de refresh token, sale_id de entrega). Los adaptadores lo traducen a
// domain.ErrDuplicate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
