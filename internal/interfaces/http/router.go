package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/delivery"
	"github.com/jhoicas/ventas-api/internal/application/sale"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	ClientUC   *usecase.ClientUseCase
	SaleUC     *sale.SaleUseCase
	ReceiptUC  *sale.ReceiptUseCase
	DeliveryUC *delivery.DeliveryUseCase
	JWTConfig  jwt.Config
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/validate", authHandler.Validate)

	// Rutas protegidas (requieren Bearer Token de tipo access)
	protected := api.Group("/", AuthMiddleware(deps.JWTConfig))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id/stock", productHandler.UpdateStock)
	products.Patch("/:id/status", productHandler.UpdateStatus)
	products.Delete("/:id", productHandler.Delete)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/search", clientHandler.Search)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/client/:clientId", saleHandler.ListByClient)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Patch("/:id/status", saleHandler.UpdateStatus)

	// Deliveries (protegido)
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/:id/complete", deliveryHandler.Complete)
	deliveries.Patch("/:id/status", deliveryHandler.UpdateStatus)
	deliveries.Patch("/:id/date", deliveryHandler.UpdateDate)
}
