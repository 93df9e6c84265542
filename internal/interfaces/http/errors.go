package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
)

// respondError traduce los errores de dominio a una respuesta HTTP.
// Todo error no reconocido es un 500 genérico: los detalles internos no se
// filtran al cliente, quedan en el log.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		if errors.Is(stockErr.Err, domain.ErrProductNotFound) {
			return status(c, fiber.StatusNotFound, "NOT_FOUND", "producto no encontrado: "+stockErr.ProductID)
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return status(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrTokenExpired):
		return status(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "token expirado")
	case errors.Is(err, domain.ErrTokenMalformed):
		return status(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido")
	case errors.Is(err, domain.ErrWrongTokenType):
		return status(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "tipo de token incorrecto")
	case errors.Is(err, domain.ErrMissingSubject):
		return status(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token sin sujeto")
	case errors.Is(err, domain.ErrTokenNotFound):
		return status(c, fiber.StatusUnauthorized, "TOKEN_REVOKED", "el refresh token ya no es válido")

	case errors.Is(err, domain.ErrInvalidInput):
		return status(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return status(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		return status(c, fiber.StatusBadRequest, "INVALID_STATUS", "estado inválido")
	case errors.Is(err, domain.ErrSaleCancelled):
		return status(c, fiber.StatusBadRequest, "SALE_CANCELLED", "la venta está cancelada")

	case errors.Is(err, domain.ErrUserNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "usuario no encontrado")
	case errors.Is(err, domain.ErrProductNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "producto no encontrado")
	case errors.Is(err, domain.ErrClientNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "cliente no encontrado")
	case errors.Is(err, domain.ErrSaleNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "venta no encontrada")
	case errors.Is(err, domain.ErrDeliveryNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "entrega no encontrada")
	case errors.Is(err, domain.ErrNotFound):
		return status(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return status(c, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado")
	case errors.Is(err, domain.ErrSaleFinalized):
		return status(c, fiber.StatusConflict, "SALE_FINALIZED", "la venta está en un estado final")
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return status(c, fiber.StatusConflict, "CONFLICT", "el recurso ya existe")
	}

	return status(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

func status(c *fiber.Ctx, code int, errCode, message string) error {
	return c.Status(code).JSON(dto.ErrorResponse{Code: errCode, Message: message})
}
