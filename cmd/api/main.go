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
	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa/signer"
	infrapdf "github.com/jhoicas/fatturapa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fatturapa-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fatturapa-api/internal/interfaces/http"
	"github.com/jhoicas/fatturapa-api/migrations"
	"github.com/jhoicas/fatturapa-api/pkg/config"
	"github.com/jhoicas/fatturapa-api/pkg/jwt"
	"github.com/jhoicas/fatturapa-api/pkg/logger"
)

// @title                       FatturaPA API
// @version                     1.0
// @description                 Generación, firma y envío al SdI de facturas electrónicas FatturaPA (FPR12).
// @BasePath                    /api
// @schemes                     http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("sdi_env", cfg.SDI.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		version, err := postgres.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("esquema actualizado")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	xmlBuilder := infrafatturapa.NewXMLBuilderService(nil)
	signerSvc := signer.NewDigitalSignatureService(nil)
	sdiCfg := billing.SDIConfig{
		AppEnv:       cfg.SDI.Env,
		CertPath:     cfg.SDI.CertPath,
		CertKeyPath:  cfg.SDI.CertKeyPath,
		CertPassword: cfg.SDI.CertPassword,
	}

	// Cliente SOAP SdI: en dev el orquestador simula el envío.
	var sdiSubmitter infrafatturapa.SDISubmitter
	if cfg.SDI.Env != infrafatturapa.AppEnvDev {
		sdiSubmitter = infrafatturapa.NewSOAPSDIClient(cfg.SDI.EndpointTest, cfg.SDI.EndpointProd)
	}

	// Validación → XML → XAdES-BES → SdIRiceviFile → Update DB
	sdiOrchestrator := billing.NewSDIOrchestrator(
		invoiceRepo, companyRepo, clientRepo,
		xmlBuilder, signerSvc, sdiSubmitter, sdiCfg, nil, log.Zerolog(),
	)

	fatturapaUC := billing.NewFatturaPAUseCase(invoiceRepo, companyRepo, clientRepo, xmlBuilder, nil)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, clientRepo, invoiceRepo, nil)
	clientUC := billing.NewClientUseCase(clientRepo, nil)
	companyUC := billing.NewCompanyUseCase(companyRepo, nil)

	// PDF: copia di cortesia
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, clientRepo, pdfGenerator)

	verifier, err := jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Warn().Err(err).Msg("rutas protegidas deshabilitadas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		JSONDecoder:  httpRouter.JSONDecoder,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FatturaPA API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FatturaPAUC: fatturapaUC,
		CompanyUC:   companyUC,
		ClientUC:    clientUC,
		InvoiceUC:   invoiceUC,
		SDI:         sdiOrchestrator,
		InvoicePDF:  invoicePDFUC,
		Verifier:    verifier,
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
