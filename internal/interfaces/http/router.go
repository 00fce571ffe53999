package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC *usecase.CompanyUseCase
	ProductUC *usecase.ProductUseCase
	ModuleSvc *usecase.ModuleService
	PartnerUC *billing.PartnerUseCase
	InvoiceUC *billing.InvoiceUseCase
	PDFUC     *billing.PDFUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (alta y consulta públicas; módulos solo admin)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Post("/:id/modules",
		AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin),
		companyHandler.ActivateModule,
	)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	requireModule := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleSvc, log)
	}

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Partners + historial de nombres
	partners := protected.Group("/partners")
	partnerHandler := NewPartnerHandler(deps.PartnerUC, log)
	partners.Post("/", partnerHandler.Create)
	partners.Get("/", partnerHandler.List)
	partners.Get("/:id", partnerHandler.GetByID)
	partners.Post("/:id/rename", requireModule(entity.ModulePartnerNameHistory), partnerHandler.Rename)
	partners.Get("/:id/name-history", requireModule(entity.ModulePartnerNameHistory), partnerHandler.NameHistory)
	partners.Get("/:id/name", requireModule(entity.ModulePartnerNameHistory), partnerHandler.NameAt)

	// Invoices (módulo billing)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, log)
	invoices := protected.Group("/invoices", requireModule(entity.ModuleBilling))
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/date", invoiceHandler.SetDate)
	invoices.Patch("/:id/lines/:lineId", invoiceHandler.UpdateLine)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Hook de edición de líneas (módulo account_fixed_discount)
	protected.Post("/invoice-lines/onchange", requireModule(entity.ModuleFixedDiscount), invoiceHandler.PreviewLine)
}
