package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/delivery"
	"github.com/jhoicas/ventas-api/internal/application/dto"
)

// DeliveryHandler maneja las peticiones HTTP para Delivery (protegido).
type DeliveryHandler struct {
	uc *delivery.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *delivery.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Create godoc
// @Summary      Agendar entrega (mueve la venta a delivery_scheduled)
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "sale_id, address, date"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return status(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Schedule(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega por ID
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entregas (opcionalmente por día)
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Param        date    query  string  false  "Día (YYYY-MM-DD)"
// @Success      200     {array}  dto.DeliveryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return status(c, fiber.StatusBadRequest, "INVALID_DATE", "date debe tener formato YYYY-MM-DD")
		}
		out, err := h.uc.ListByDate(c.Context(), day)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar entrega (mueve la venta a delivered)
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/complete [post]
func (h *DeliveryHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.Complete(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la entrega (no toca la venta)
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/status [patch]
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	var in dto.UpdateDeliveryStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return status(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateDate godoc
// @Summary      Reprogramar fecha de la entrega
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryDateRequest  true  "Nueva fecha"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/date [patch]
func (h *DeliveryHandler) UpdateDate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	var in dto.UpdateDeliveryDateRequest
	if err := c.BodyParser(&in); err != nil {
		return status(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Date.IsZero() {
		return status(c, fiber.StatusBadRequest, "VALIDATION", "date es requerido")
	}
	out, err := h.uc.UpdateDate(c.Context(), id, in.Date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
