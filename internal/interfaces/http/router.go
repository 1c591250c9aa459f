package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FatturaPAUC *billing.FatturaPAUseCase
	CompanyUC   *billing.CompanyUseCase
	ClientUC    *billing.ClientUseCase
	InvoiceUC   *billing.InvoiceUseCase
	SDI         *billing.SDIOrchestrator
	InvoicePDF  *billing.PDFUseCase
	Verifier    *jwt.Verifier // nil: rutas protegidas siempre 401
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// FatturaPA (público, sin estado)
	fatturapa := api.Group("/fatturapa")
	fatturapaHandler := NewFatturaPAHandler(deps.FatturaPAUC)
	fatturapa.Post("/validate", fatturapaHandler.Validate)
	fatturapa.Post("/generate", fatturapaHandler.Generate)
	fatturapa.Post("/inspect", fatturapaHandler.Inspect)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Verifier))

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", RequireRole(RoleAdmin), companyHandler.Save)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.FatturaPAUC, deps.SDI, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/export", invoiceHandler.Export)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/status", invoiceHandler.GetStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/fatturapa", invoiceHandler.GenerateFatturaPA)
	invoices.Post("/:id/sdi", RequireRole(RoleAdmin, RoleContabile), invoiceHandler.SubmitSDI)
}
