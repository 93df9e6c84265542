package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// fakeClientRepo guarda clientes en memoria y busca sobre campos normalizados,
// igual que hace la consulta SQL con unaccent + lower.
type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[string]*entity.Client{}}
}

func (r *fakeClientRepo) Create(c *entity.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClientRepo) Update(c *entity.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeClientRepo) Search(normalizedQuery string) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.clients {
		if strings.Contains(usecase.Normalize(c.Name), normalizedQuery) ||
			strings.Contains(strings.ToLower(c.Email), normalizedQuery) ||
			strings.Contains(c.Phone, normalizedQuery) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Delete(id string) error {
	delete(r.clients, id)
	return nil
}

// fakeSaleHistory repositorio de ventas mínimo para el historial del cliente.
type fakeSaleHistory struct {
	sales []*entity.Sale
}

func (r *fakeSaleHistory) Create(s *entity.Sale) error {
	cp := *s
	r.sales = append(r.sales, &cp)
	return nil
}

func (r *fakeSaleHistory) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleHistory) UpdateStatus(saleID string, status entity.SaleStatus) (int64, error) {
	for _, s := range r.sales {
		if s.ID == saleID && !s.Status.Terminal() {
			s.Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeSaleHistory) List(limit, offset int) ([]*entity.Sale, error) {
	return r.sales, nil
}

func (r *fakeSaleHistory) ListByClient(clientID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.ClientID == clientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newClientUC(repo *fakeClientRepo) *usecase.ClientUseCase {
	return usecase.NewClientUseCase(repo, &fakeSaleHistory{})
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalize
// ──────────────────────────────────────────────────────────────────────────────

// La normalización baja a minúsculas y quita tildes y diéresis.
func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Sofía":     "sofia",
		"JOSÉ":      "jose",
		"  Muñoz  ": "munoz",
		"agüero":    "aguero",
		"plain":     "plain",
	}
	for in, want := range cases {
		assert.Equal(t, want, usecase.Normalize(in), "entrada: %q", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────────────────────

// La búsqueda es insensible a mayúsculas y tildes en ambos extremos.
func TestSearch_InsensibleATildes(t *testing.T) {
	repo := newFakeClientRepo()
	uc := newClientUC(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Sofía Muñoz", Phone: "3001234567"})
	require.NoError(t, err)

	for _, q := range []string{"sofia", "SOFÍA", "muñoz", "munoz", "300123"} {
		out, err := uc.Search(ctx, q)
		require.NoError(t, err, "query: %q", q)
		require.Len(t, out, 1, "query: %q", q)
		assert.Equal(t, created.ID, out[0].ID)
	}
}

// Una query vacía (o solo espacios) es inválida.
func TestSearch_QueryVacia(t *testing.T) {
	uc := newClientUC(newFakeClientRepo())

	_, err := uc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_CRUD(t *testing.T) {
	uc := newClientUC(newFakeClientRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Carlos Pérez", Email: "carlos@example.com"})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Pérez", got.Name)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateClientRequest{Phone: "3019876543"})
	require.NoError(t, err)
	assert.Equal(t, "3019876543", updated.Phone)
	assert.Equal(t, "Carlos Pérez", updated.Name, "los campos vacíos no sobrescriben")

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrClientNotFound)
}

// El detalle del cliente incluye su historial de ventas; los listados no.
func TestClient_DetalleConHistorial(t *testing.T) {
	repo := newFakeClientRepo()
	sales := &fakeSaleHistory{}
	uc := usecase.NewClientUseCase(repo, sales)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Ana Ríos"})
	require.NoError(t, err)

	require.NoError(t, sales.Create(&entity.Sale{ID: "venta-1", ClientID: created.ID, Status: entity.SalePending}))
	require.NoError(t, sales.Create(&entity.Sale{ID: "venta-2", ClientID: "otro-cliente", Status: entity.SalePending}))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Sales, 1)
	assert.Equal(t, "venta-1", got.Sales[0].ID)
	assert.Equal(t, string(entity.SalePending), got.Sales[0].Status)

	list, err := uc.List(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Sales)
}

func TestClient_CreateSinNombre(t *testing.T) {
	uc := newClientUC(newFakeClientRepo())

	_, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
