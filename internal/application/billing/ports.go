package billing

import (
	"context"
	"crypto/tls"

	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// XMLGenerator construye el XML FatturaPA a partir de Params ya validados.
type XMLGenerator interface {
	Build(p domfatturapa.Params) string
}

// InvoicePDFGenerator genera la copia de cortesía (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		client *entity.Client,
		lines []*entity.InvoiceLine,
	) ([]byte, error)
}

// CertificateLoader carga el certificado de firma configurado.
type CertificateLoader func(path, keyPath, password string) (tls.Certificate, error)

// SDIConfig entorno del SdI y rutas del certificado de firma.
type SDIConfig struct {
	AppEnv       string // dev | test | prod
	CertPath     string
	CertKeyPath  string
	CertPassword string
}
