package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. La cantidad solo se muta por el setter de
// stock (ajuste manual) o por el ledger de ventas; el Update general no la toca.
type ProductUseCase struct {
	repo     repository.ProductRepository
	notifier ports.Notifier
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, notifier ports.Notifier) *ProductUseCase {
	return &ProductUseCase{repo: repo, notifier: notifier}
}

// Create valida y persiste un producto nuevo en estado available.
// Publica product:created después de persistir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Type:         in.Type,
		Code:         in.Code,
		Description:  in.Description,
		CostPrice:    in.CostPrice,
		ProfitMargin: in.ProfitMargin,
		SalePrice:    in.SalePrice,
		Quantity:     in.Quantity,
		Status:       entity.ProductAvailable,
		Reserved:     in.Reserved,
		Sold:         in.Sold,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	uc.notifier.Publish(ctx, ports.EventProductCreated, out)
	return out, nil
}

// validateProduct reglas de negocio sobre los campos del producto:
// el precio de venta no puede ser menor al de costo.
func validateProduct(in dto.CreateProductRequest) error {
	if in.Name == "" || in.Type == "" {
		return domain.ErrInvalidInput
	}
	if !in.CostPrice.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.ProfitMargin.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if !in.SalePrice.GreaterThan(decimal.Zero) || in.SalePrice.LessThan(in.CostPrice) {
		return domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// List lista productos paginados (más recientes primero).
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza los campos descriptivos y de precio de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Type != "" {
		p.Type = in.Type
	}
	if in.Code != "" {
		p.Code = in.Code
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.CostPrice.GreaterThan(decimal.Zero) {
		p.CostPrice = in.CostPrice
	}
	if !in.ProfitMargin.LessThan(decimal.Zero) && !in.ProfitMargin.IsZero() {
		p.ProfitMargin = in.ProfitMargin
	}
	if in.SalePrice.GreaterThan(decimal.Zero) {
		p.SalePrice = in.SalePrice
	}
	if p.SalePrice.LessThan(p.CostPrice) {
		return nil, domain.ErrInvalidInput
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// UpdateStock setter absoluto de cantidad (ajuste manual). No pasa por el
// ledger: deja el estado en unavailable si la cantidad queda en cero.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, id string, quantity int) (*dto.ProductResponse, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	status := entity.ProductAvailable
	if quantity == 0 {
		status = entity.ProductUnavailable
	}
	if err := uc.repo.UpdateStock(id, quantity, status, false); err != nil {
		return nil, err
	}
	p.Quantity = quantity
	p.Status = status
	p.Sold = false
	return toProductResponse(p), nil
}

// UpdateStatus cambio directo de estado con validación del enum.
func (uc *ProductUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.ProductResponse, error) {
	newStatus := entity.ProductStatus(status)
	if !newStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if err := uc.repo.UpdateStatus(id, newStatus); err != nil {
		return nil, err
	}
	p.Status = newStatus
	return toProductResponse(p), nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		Code:         p.Code,
		Description:  p.Description,
		CostPrice:    p.CostPrice,
		ProfitMargin: p.ProfitMargin,
		SalePrice:    p.SalePrice,
		Quantity:     p.Quantity,
		Status:       string(p.Status),
		Reserved:     p.Reserved,
		Sold:         p.Sold,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
