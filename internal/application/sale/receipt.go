package sale

import (
	"context"
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ItemForReceipt línea de venta enriquecida con el nombre del producto para
// imprimirla en el comprobante.
type ItemForReceipt struct {
	entity.SaleItem
	ProductName string
}

// ReceiptPDFGenerator puerto de generación del comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, client *entity.Client, items []ItemForReceipt) ([]byte, error)
}

// ReceiptUseCase genera el comprobante (PDF) de una venta.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// DownloadReceiptPDF recupera la venta con sus líneas y datos del cliente y
// genera el comprobante.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrSaleNotFound      si la venta no existe.
//   - domain.ErrSaleCancelled     si la venta está cancelada.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrSaleNotFound
	}
	if sale.Status == entity.SaleCancelled {
		return nil, "", domain.ErrSaleCancelled
	}

	client, err := uc.clientRepo.GetByID(sale.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", domain.ErrClientNotFound
	}

	enriched := make([]ItemForReceipt, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := "Producto " + item.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(item.ProductID); pErr == nil && product != nil {
			name = product.Name
		}
		enriched = append(enriched, ItemForReceipt{SaleItem: *item, ProductName: name})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, client, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("venta_%s.pdf", sale.ID)
	return pdfBytes, filename, nil
}
