package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrClientNotFound     = errors.New("cliente no encontrado")
	ErrSaleNotFound       = errors.New("venta no encontrada")
	ErrDeliveryNotFound   = errors.New("entrega no encontrada")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidStatus      = errors.New("estado inválido")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSaleCancelled      = errors.New("la venta está cancelada")
	ErrSaleFinalized      = errors.New("la venta ya está en un estado final")
)

// Errores de autenticación. Access y refresh tokens comparten la taxonomía;
// los handlers los mapean a 401 con códigos distintos.
var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrTokenNotFound      = errors.New("refresh token no encontrado")
	ErrTokenExpired       = errors.New("token expirado")
	ErrTokenMalformed     = errors.New("token malformado o con firma inválida")
	ErrWrongTokenType     = errors.New("tipo de token incorrecto para esta operación")
	ErrMissingSubject     = errors.New("el token no contiene el ID del usuario")
)

// StockError identifica el producto que impidió completar una venta.
// Envuelve ErrInsufficientStock o ErrProductNotFound según el caso.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
	Err         error
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	if errors.Is(e.Err, ErrProductNotFound) {
		return fmt.Sprintf("producto %s no encontrado", name)
	}
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %d, disponible %d", name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return e.Err }
