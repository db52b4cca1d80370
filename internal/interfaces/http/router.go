package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/catalog"
	"github.com/jhoicas/backoffice-api/internal/application/guard"
	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/application/receipt"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CatalogUC  *catalog.UseCase
	DeleteUC   *guard.DeleteUseCase
	PlaceOrder *orders.PlaceOrderUseCase
	OrderQuery *orders.QueryUseCase
	ReceiptUC  *receipt.UseCase
	AuditUC    *audit.UseCase
	JWTSecret  string
	// WritesRequireToken rechaza con 401 las escrituras anónimas.
	WritesRequireToken bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// El resto admite token opcional: si viene, su user_id queda en la auditoría.
	r := api.Group("/", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(entity.RoleAdmin, entity.RoleOperador)
	if deps.WritesRequireToken {
		write = RequireAuthenticatedRole(entity.RoleAdmin, entity.RoleOperador)
	}

	cat := NewCatalogHandler(deps.CatalogUC, deps.DeleteUC)

	clients := r.Group("/clients")
	clients.Get("/", cat.ListClients)
	clients.Post("/", write, cat.CreateClient)
	clients.Put("/:id", write, cat.UpdateClient)
	clients.Delete("/:id", write, cat.Delete(entity.KindClient))

	products := r.Group("/products")
	products.Get("/", cat.ListProducts)
	products.Post("/", write, cat.CreateProduct)
	products.Put("/:id", write, cat.UpdateProduct)
	products.Delete("/:id", write, cat.Delete(entity.KindProduct))

	categories := r.Group("/categories")
	categories.Post("/", write, cat.CreateCategory)
	categories.Put("/:id", write, cat.UpdateCategory)
	categories.Delete("/:id", write, cat.Delete(entity.KindCategory))

	vendors := r.Group("/vendors")
	vendors.Post("/", write, cat.CreateVendor)
	vendors.Put("/:id", write, cat.UpdateVendor)
	vendors.Delete("/:id", write, cat.Delete(entity.KindVendor))

	files := r.Group("/files")
	files.Post("/", write, cat.RegisterFile)
	files.Delete("/:id", write, cat.Delete(entity.KindFile))

	orderHandler := NewOrderHandler(deps.PlaceOrder, deps.OrderQuery, deps.ReceiptUC)
	ordersGroup := r.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", write, orderHandler.Place)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)
	ordersGroup.Delete("/:id", write, cat.Delete(entity.KindOrder))

	auditHandler := NewAuditHandler(deps.AuditUC)
	r.Get("/audit-logs", auditHandler.List)
}
