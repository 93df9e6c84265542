package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ClientUseCase CRUD de clientes y búsqueda por nombre/email/teléfono.
// El detalle de un cliente incluye su historial de ventas.
type ClientUseCase struct {
	repo     repository.ClientRepository
	saleRepo repository.SaleRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, saleRepo repository.SaleRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, saleRepo: saleRepo}
}

// Create persiste un cliente nuevo.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// GetByID obtiene un cliente con su historial de ventas.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	sales, err := uc.saleRepo.ListByClient(id)
	if err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	for _, s := range sales {
		out.Sales = append(out.Sales, dto.ClientSaleSummary{
			ID:          s.ID,
			Total:       s.Total,
			PaymentType: s.PaymentType,
			Status:      string(s.Status),
			CreatedAt:   s.CreatedAt,
		})
	}
	return out, nil
}

// List lista clientes paginados (por nombre ascendente).
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ClientResponse, error) {
	clients, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update actualiza los datos de contacto de un cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrClientNotFound
	}
	return uc.repo.Delete(id)
}

// Search busca clientes por nombre, email o teléfono, insensible a mayúsculas
// y tildes ("Sofía" matchea "sofia").
func (uc *ClientUseCase) Search(ctx context.Context, query string) ([]*dto.ClientResponse, error) {
	q := Normalize(query)
	if q == "" {
		return nil, domain.ErrInvalidInput
	}
	clients, err := uc.repo.Search(q)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Normalize baja a minúsculas y elimina marcas diacríticas (NFD + quitar Mn).
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
