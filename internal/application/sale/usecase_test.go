package sale_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/sale"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en el fake es una lectura normal: la exclusión la aporta el
// txRunner de test, que serializa las "transacciones" con un mutex.
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(id string, quantity int, status entity.ProductStatus, sold bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Quantity = quantity
	p.Status = status
	p.Sold = sold
	return nil
}

func (r *fakeProductRepo) UpdateStatus(id string, status entity.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Delete(id string) error                            { return nil }

func (r *fakeProductRepo) snapshot(id string) entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.products[id]
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[string]*entity.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[string]*entity.Sale{}}
}

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.Items = append([]*entity.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sales[id]; ok {
		cp := *s
		cp.Items = append([]*entity.SaleItem(nil), s.Items...)
		return &cp, nil
	}
	return nil, nil
}

// UpdateStatus imita el UPDATE condicional del adaptador real: un estado
// final no se sobrescribe y se reporta cero filas afectadas.
func (r *fakeSaleRepo) UpdateStatus(id string, status entity.SaleStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.Status.Terminal() {
		return 0, nil
	}
	s.Status = status
	return 1, nil
}

func (r *fakeSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.sales {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) ListByClient(clientID string) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.ClientID == clientID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

// fakeSaleTxRunner serializa las transacciones con un mutex y revierte nada:
// los tests que necesitan atomicidad verifican el estado final, no el rollback
// físico (eso lo cubre la integración con PostgreSQL). El barrier opcional
// retiene las transacciones hasta que todos los participantes hayan pasado su
// lectura previa, forzando que esa lectura quede obsoleta.
type fakeSaleTxRunner struct {
	mu          sync.Mutex
	saleRepo    *fakeSaleRepo
	productRepo *fakeProductRepo
	barrier     *sync.WaitGroup
}

func (r *fakeSaleTxRunner) Run(_ context.Context, fn func(repository.SaleRepository, repository.ProductRepository) error) error {
	if r.barrier != nil {
		r.barrier.Done()
		r.barrier.Wait()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.saleRepo, r.productRepo)
}

// captureNotifier acumula los eventos publicados.
type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) Publish(_ context.Context, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	clientID = "10000000-0000-0000-0000-000000000001"
	userID   = "20000000-0000-0000-0000-000000000001"
	prodA    = "30000000-0000-0000-0000-00000000000a"
	prodB    = "30000000-0000-0000-0000-00000000000b"
)

func productWith(id, name string, quantity int, price int64) *entity.Product {
	return &entity.Product{
		ID:        id,
		Name:      name,
		Type:      "mueble",
		SalePrice: decimal.NewFromInt(price),
		CostPrice: decimal.NewFromInt(price / 2),
		Quantity:  quantity,
		Status:    entity.ProductAvailable,
	}
}

func newTestSale(products ...*entity.Product) (*sale.SaleUseCase, *fakeSaleRepo, *fakeProductRepo, *captureNotifier) {
	productRepo := newFakeProductRepo(products...)
	saleRepo := newFakeSaleRepo()
	notifier := &captureNotifier{}
	txRunner := &fakeSaleTxRunner{saleRepo: saleRepo, productRepo: productRepo}
	ledger := inventory.NewLedger(productRepo)
	uc := sale.NewSaleUseCase(txRunner, saleRepo, productRepo, ledger, notifier)
	return uc, saleRepo, productRepo, notifier
}

func saleRequest(quantity int) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		ClientID: clientID,
		Items:    []dto.SaleItemRequest{{ProductID: prodA, Quantity: quantity}},
		Total:    decimal.NewFromInt(int64(quantity) * 100),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: venta exitosa descuenta stock, persiste líneas con el precio del
// producto congelado y publica el evento después del commit.
func TestCreateSale_Exitosa(t *testing.T) {
	uc, saleRepo, productRepo, notifier := newTestSale(productWith(prodA, "Sofá", 5, 100))

	out, err := uc.CreateSale(context.Background(), userID, saleRequest(2))
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "pending", out.Status)
	assert.True(t, out.Items[0].Price.Equal(decimal.NewFromInt(100)),
		"sin precio en la petición se congela el precio de venta del producto")

	assert.Equal(t, 3, productRepo.snapshot(prodA).Quantity)
	assert.Equal(t, 1, saleRepo.count())
	assert.Equal(t, []string{"sale:created"}, notifier.published())
}

// Caso 2: vender la última unidad deja quantity 0, estado sold y la bandera sold.
func TestCreateSale_UltimaUnidad(t *testing.T) {
	uc, _, productRepo, _ := newTestSale(productWith(prodA, "Sofá", 2, 100))

	_, err := uc.CreateSale(context.Background(), userID, saleRequest(2))
	require.NoError(t, err)

	p := productRepo.snapshot(prodA)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, entity.ProductSold, p.Status)
	assert.True(t, p.Sold)
}

// Caso 3: stock insuficiente falla con un StockError que nombra el producto;
// no se crea venta ni se muta inventario.
func TestCreateSale_StockInsuficiente(t *testing.T) {
	uc, saleRepo, productRepo, notifier := newTestSale(productWith(prodA, "Sofá", 1, 100))

	_, err := uc.CreateSale(context.Background(), userID, saleRequest(3))
	require.Error(t, err)

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr), "el error debe ser StockError")
	assert.Equal(t, "Sofá", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 1, productRepo.snapshot(prodA).Quantity, "el inventario no debe mutar")
	assert.Equal(t, 0, saleRepo.count(), "no debe quedar venta persistida")
	assert.Empty(t, notifier.published(), "no debe publicarse evento alguno")
}

// Caso 4: con varias líneas, si una no alcanza, ninguna queda descontada.
func TestCreateSale_FallaMultilinea_SinDescuentosParciales(t *testing.T) {
	uc, saleRepo, productRepo, _ := newTestSale(
		productWith(prodA, "Sofá", 5, 100),
		productWith(prodB, "Mesa", 1, 50),
	)

	_, err := uc.CreateSale(context.Background(), userID, dto.CreateSaleRequest{
		ClientID: clientID,
		Items: []dto.SaleItemRequest{
			{ProductID: prodA, Quantity: 2},
			{ProductID: prodB, Quantity: 4}, // no alcanza
		},
		Total: decimal.NewFromInt(400),
	})
	require.Error(t, err)

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Mesa", stockErr.ProductName, "debe nombrar el producto ofensor")

	assert.Equal(t, 5, productRepo.snapshot(prodA).Quantity, "la línea buena no debe descontarse")
	assert.Equal(t, 1, productRepo.snapshot(prodB).Quantity)
	assert.Equal(t, 0, saleRepo.count())
}

// Caso 5: la validación de entrada falla sin tocar nada.
func TestCreateSale_ValidacionSinEfectos(t *testing.T) {
	uc, saleRepo, _, _ := newTestSale(productWith(prodA, "Sofá", 5, 100))
	ctx := context.Background()

	cases := []dto.CreateSaleRequest{
		{ClientID: "", Items: []dto.SaleItemRequest{{ProductID: prodA, Quantity: 1}}, Total: decimal.NewFromInt(100)},
		{ClientID: clientID, Items: nil, Total: decimal.NewFromInt(100)},
		{ClientID: clientID, Items: []dto.SaleItemRequest{{ProductID: prodA, Quantity: 1}}, Total: decimal.Zero},
		{ClientID: clientID, Items: []dto.SaleItemRequest{{ProductID: prodA, Quantity: 0}}, Total: decimal.NewFromInt(100)},
	}
	for _, in := range cases {
		_, err := uc.CreateSale(ctx, userID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 0, saleRepo.count())
}

// Caso 6: producto inexistente → StockError que envuelve ErrProductNotFound.
func TestCreateSale_ProductoInexistente(t *testing.T) {
	uc, _, _, _ := newTestSale(productWith(prodA, "Sofá", 5, 100))

	_, err := uc.CreateSale(context.Background(), userID, dto.CreateSaleRequest{
		ClientID: clientID,
		Items:    []dto.SaleItemRequest{{ProductID: prodB, Quantity: 1}},
		Total:    decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// Caso 7: dos ventas concurrentes por la última unidad, exactamente una gana.
// La re-verificación bajo la transacción detecta al perdedor aunque ambos
// hayan pasado el chequeo previo.
func TestCreateSale_CarreraPorUltimaUnidad(t *testing.T) {
	uc, saleRepo, productRepo, _ := newTestSale(productWith(prodA, "Sofá", 1, 100))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CreateSale(ctx, userID, saleRequest(1))
		}(i)
	}
	wg.Wait()

	okCount, stockErrCount := 0, 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			stockErrCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una venta debe confirmar")
	assert.Equal(t, 1, stockErrCount, "la otra debe fallar por stock")
	assert.Equal(t, 0, productRepo.snapshot(prodA).Quantity)
	assert.Equal(t, 1, saleRepo.count())
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func createSale(t *testing.T, uc *sale.SaleUseCase, quantity int) *dto.SaleResponse {
	t.Helper()
	out, err := uc.CreateSale(context.Background(), userID, saleRequest(quantity))
	require.NoError(t, err)
	return out
}

// Caso 8: cancelar restaura las cantidades de cada línea y el producto vuelve
// a available.
func TestUpdateStatus_CancelarRestauraStock(t *testing.T) {
	uc, _, productRepo, _ := newTestSale(productWith(prodA, "Sofá", 2, 100))
	created := createSale(t, uc, 2)
	require.Equal(t, 0, productRepo.snapshot(prodA).Quantity)

	out, err := uc.UpdateStatus(context.Background(), created.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	p := productRepo.snapshot(prodA)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, entity.ProductAvailable, p.Status)
	assert.False(t, p.Sold)
}

// Caso 9: un estado final (delivered o cancelled) no admite más transiciones.
func TestUpdateStatus_EstadoFinalInmutable(t *testing.T) {
	uc, _, _, _ := newTestSale(productWith(prodA, "Sofá", 5, 100))
	ctx := context.Background()

	delivered := createSale(t, uc, 1)
	_, err := uc.UpdateStatus(ctx, delivered.ID, "delivered")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, delivered.ID, "pending")
	assert.ErrorIs(t, err, domain.ErrSaleFinalized)

	cancelled := createSale(t, uc, 1)
	_, err = uc.UpdateStatus(ctx, cancelled.ID, "cancelled")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, cancelled.ID, "delivered")
	assert.ErrorIs(t, err, domain.ErrSaleFinalized)
}

// Caso 10: cancelar dos veces no duplica la restauración (la segunda es rechazada).
func TestUpdateStatus_CancelacionNoSeDuplica(t *testing.T) {
	uc, _, productRepo, _ := newTestSale(productWith(prodA, "Sofá", 2, 100))
	created := createSale(t, uc, 2)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, created.ID, "cancelled")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, created.ID, "cancelled")
	assert.ErrorIs(t, err, domain.ErrSaleFinalized)

	assert.Equal(t, 2, productRepo.snapshot(prodA).Quantity, "el stock no debe restaurarse dos veces")
}

// Caso 11: un valor fuera del enum → ErrInvalidStatus.
func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	uc, _, _, _ := newTestSale(productWith(prodA, "Sofá", 5, 100))
	created := createSale(t, uc, 1)

	_, err := uc.UpdateStatus(context.Background(), created.ID, "enviada")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

// Caso 12: transición al mismo estado es un no-op sin evento.
func TestUpdateStatus_MismoEstadoNoOp(t *testing.T) {
	uc, _, _, notifier := newTestSale(productWith(prodA, "Sofá", 5, 100))
	created := createSale(t, uc, 1)
	before := len(notifier.published())

	out, err := uc.UpdateStatus(context.Background(), created.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, "pending", out.Status)
	assert.Len(t, notifier.published(), before, "un no-op no publica evento")
}

// Caso 13: venta inexistente → ErrSaleNotFound.
func TestUpdateStatus_VentaInexistente(t *testing.T) {
	uc, _, _, _ := newTestSale(productWith(prodA, "Sofá", 5, 100))

	_, err := uc.UpdateStatus(context.Background(), "no-existe", "cancelled")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

// Caso 14: dos cancelaciones concurrentes de la misma venta. El barrier
// garantiza que ambas leyeron "pending" antes de que corra cualquier
// transacción; aun así el UPDATE condicional deja pasar solo a una y el stock
// se restaura exactamente una vez.
func TestUpdateStatus_CancelacionConcurrente(t *testing.T) {
	productRepo := newFakeProductRepo(productWith(prodA, "Sofá", 2, 100))
	saleRepo := newFakeSaleRepo()
	txRunner := &fakeSaleTxRunner{saleRepo: saleRepo, productRepo: productRepo}
	ledger := inventory.NewLedger(productRepo)
	uc := sale.NewSaleUseCase(txRunner, saleRepo, productRepo, ledger, ports.NopNotifier{})

	created := createSale(t, uc, 2)
	require.Equal(t, 0, productRepo.snapshot(prodA).Quantity)

	var barrier sync.WaitGroup
	barrier.Add(2)
	txRunner.barrier = &barrier

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.UpdateStatus(context.Background(), created.ID, "cancelled")
		}(i)
	}
	wg.Wait()

	okCount, finalizedCount := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrSaleFinalized):
			finalizedCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una cancelación debe confirmar")
	assert.Equal(t, 1, finalizedCount, "la otra debe ver la venta ya finalizada")
	assert.Equal(t, 2, productRepo.snapshot(prodA).Quantity, "el stock se restaura una sola vez")
}
