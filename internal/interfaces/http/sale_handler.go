package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sale"
)

// SaleHandler maneja las peticiones HTTP para Sale (protegido).
type SaleHandler struct {
	uc        *sale.SaleUseCase
	receiptUC *sale.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.SaleUseCase, receiptUC *sale.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receiptUC: receiptUC}
}

// Create godoc
// @Summary      Crear venta (descuenta inventario atómicamente)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "client_id, products, total"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return status(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID (con líneas)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	if clientID := c.Query("client_id"); clientID != "" {
		out, err := h.uc.ListByClient(c.Context(), clientID)
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

// ListByClient godoc
// @Summary      Listar ventas de un cliente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        clientId  path  string  true  "ID del cliente"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales/client/{clientId} [get]
func (h *SaleHandler) ListByClient(c *fiber.Ctx) error {
	clientID := c.Params("clientId")
	if clientID == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "clientId es requerido")
	}
	out, err := h.uc.ListByClient(c.Context(), clientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la venta (cancelar restaura inventario)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/status [patch]
func (h *SaleHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	var in dto.UpdateSaleStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return status(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar comprobante de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return status(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	pdfBytes, filename, err := h.receiptUC.DownloadReceiptPDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
