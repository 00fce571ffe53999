package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/facturacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/facturacion-api/pkg/config"
	"github.com/jhoicas/facturacion-api/pkg/logger"
	"github.com/rs/zerolog"
)

// repos agrupa los adaptadores de persistencia según el driver configurado.
type repos struct {
	company  repository.CompanyRepository
	user     repository.UserRepository
	product  repository.ProductRepository
	partner  repository.PartnerRepository
	invoice  repository.InvoiceRepository
	txRunner billing.BillingTxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg, log.Component("postgres").Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer r.close()

	// Historial de nombres: invoice.partner_id -> name_history_invoice_date
	resolver := namehistory.NewResolver(namehistory.DefaultRegistry(), r.partner)

	companyUC := usecase.NewCompanyUseCase(r.company)
	productUC := usecase.NewProductUseCase(r.product)
	moduleSvc := usecase.NewModuleService(r.company)
	partnerUC := billing.NewPartnerUseCase(r.txRunner, r.partner)
	invoiceUC := billing.NewInvoiceUseCase(
		r.txRunner, r.partner, r.product, r.invoice, resolver, cfg.App.DefaultCurrency,
	)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		r.invoice, r.company, r.partner, r.product, resolver, pdfGenerator,
	)
	authUC := auth.NewAuthUseCase(r.user, r.company, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC: companyUC,
		ProductUC: productUC,
		ModuleSvc: moduleSvc,
		PartnerUC: partnerUC,
		InvoiceUC: invoiceUC,
		PDFUC:     invoicePDFUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log.Component("api").Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openRepos construye los repositorios de PostgreSQL o, con STORAGE_DRIVER=memory, el almacén en memoria.
func openRepos(ctx context.Context, cfg *config.Config, dbLog zerolog.Logger) (*repos, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memory.NewStore()
		return &repos{
			company:  store.Companies(),
			user:     store.Users(),
			product:  store.Products(),
			partner:  store.Partners(),
			invoice:  store.Invoices(),
			txRunner: store,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, dbLog)
	if err != nil {
		return nil, err
	}
	return &repos{
		company:  postgres.NewCompanyRepository(pool),
		user:     postgres.NewUserRepository(pool),
		product:  postgres.NewProductRepository(pool),
		partner:  postgres.NewPartnerRepository(pool),
		invoice:  postgres.NewInvoiceRepository(pool),
		txRunner: postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}
