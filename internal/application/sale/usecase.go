package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// SaleUseCase orquesta la creación de ventas: validación, verificación de
// stock, persistencia atómica de venta + líneas + descuentos, transiciones de
// estado y notificación post-commit.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	ledger      *inventory.Ledger
	notifier    ports.Notifier
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	ledger *inventory.Ledger,
	notifier ports.Notifier,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		ledger:      ledger,
		notifier:    notifier,
	}
}

// CreateSale crea una venta con sus líneas y descuenta inventario, todo o nada.
//
//  1. Valida la entrada sin tocar la BD (cero efectos si falla).
//  2. Verifica stock por línea contra el ledger y falla rápido nombrando el
//     producto ofensor; ninguna línea queda reservada a medias.
//  3. En una transacción: descuenta cada línea sobre la fila bloqueada y
//     persiste venta + líneas. Si un descuento falla después de otros, todo
//     revierte (sin inventario parcialmente descontado).
//  4. Publica sale:created solo después del Commit.
func (uc *SaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.Total.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	// Chequeo previo de disponibilidad (solo lectura, falla rápido por producto)
	for _, item := range in.Items {
		if err := uc.ledger.CheckAvailability(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	// Precios capturados al momento de la venta: si el caller no mandó precio,
	// se congela el precio de venta actual del producto. Un precio enviado por
	// el caller se acepta tal cual (descuentos, precio negociado) y el total
	// es declarado por el caller, no se recalcula desde las líneas.
	prices := make(map[string]decimal.Decimal, len(in.Items))
	for _, item := range in.Items {
		if item.Price.GreaterThan(decimal.Zero) {
			prices[item.ProductID] = item.Price
			continue
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, &domain.StockError{ProductID: item.ProductID, Err: domain.ErrProductNotFound}
		}
		prices[item.ProductID] = product.SalePrice
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		ClientID:    in.ClientID,
		UserID:      userID,
		Total:       in.Total,
		Status:      entity.SalePending,
		PaymentType: in.PaymentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range in.Items {
		sale.Items = append(sale.Items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     prices[item.ProductID],
		})
	}

	err := uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		// Descuento por línea sobre la fila bloqueada: el ledger re-verifica
		// bajo el mismo lock, así el chequeo previo obsoleto no compra de más
		for _, item := range sale.Items {
			if err := uc.ledger.CommitDecrementInTx(productRepo, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	out := toSaleResponse(sale)
	uc.notifier.Publish(ctx, ports.EventSaleCreated, out)
	return out, nil
}

// UpdateStatus cambia el estado de una venta. Rechaza valores fuera del enum
// y cualquier salida de un estado final. La transición a cancelled restaura
// las cantidades de cada línea en la misma transacción.
func (uc *SaleUseCase) UpdateStatus(ctx context.Context, saleID, status string) (*dto.SaleResponse, error) {
	newStatus := entity.SaleStatus(status)
	if !newStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	if sale.Status.Terminal() {
		return nil, domain.ErrSaleFinalized
	}
	if sale.Status == newStatus {
		return toSaleResponse(sale), nil
	}

	// La lectura de arriba puede quedar obsoleta frente a una transición
	// concurrente; la guarda real es el UPDATE condicional, que ve cero filas
	// si la venta ya alcanzó un estado final. En la cancelación el UPDATE va
	// primero: al tomar el lock de la fila, la restauración de inventario
	// corre a lo sumo una vez.
	if newStatus == entity.SaleCancelled {
		err = uc.txRunner.Run(ctx, func(
			saleRepo repository.SaleRepository,
			productRepo repository.ProductRepository,
		) error {
			rows, err := saleRepo.UpdateStatus(saleID, newStatus)
			if err != nil {
				return err
			}
			if rows == 0 {
				return domain.ErrSaleFinalized
			}
			for _, item := range sale.Items {
				if err := uc.ledger.RestoreInTx(productRepo, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
	} else {
		var rows int64
		rows, err = uc.saleRepo.UpdateStatus(saleID, newStatus)
		if err == nil && rows == 0 {
			err = domain.ErrSaleFinalized
		}
	}
	if err != nil {
		return nil, err
	}

	sale.Status = newStatus
	out := toSaleResponse(sale)
	uc.notifier.Publish(ctx, ports.EventSaleStatusUpdated, out)
	return out, nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas paginadas (más recientes primero).
func (uc *SaleUseCase) List(ctx context.Context, limit, offset int) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// ListByClient lista las ventas de un cliente.
func (uc *SaleUseCase) ListByClient(ctx context.Context, clientID string) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		UserID:      s.UserID,
		Total:       s.Total,
		Status:      string(s.Status),
		PaymentType: s.PaymentType,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return out
}
