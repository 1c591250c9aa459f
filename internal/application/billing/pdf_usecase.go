package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fatturapa-api/internal/domain"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

// PDFUseCase genera la copia de cortesía (PDF) de una factura.
// Solo se permite si la factura ya tiene XML FatturaPA.
type PDFUseCase struct {
	loader    invoiceLoader
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		loader:    invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, clientRepo: clientRepo},
		generator: generator,
	}
}

// DownloadCourtesyCopy genera el PDF de una factura ya generada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
//   - domain.ErrNotGenerated     si la factura aún no tiene XML.
func (uc *PDFUseCase) DownloadCourtesyCopy(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	b, err := uc.loader.load(companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if !b.invoice.HasXML() {
		return nil, "", fmt.Errorf("%w: estado %s", domain.ErrNotGenerated, b.invoice.SDIStatus)
	}

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, b.invoice, b.company, b.client, b.lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	name := domfatturapa.ProgressivoInvio(b.invoice.Number)
	if xmlName := b.invoice.XMLFilename; xmlName != "" {
		name = strings.TrimSuffix(xmlName, ".xml")
	}
	return pdfBytes, "copia_cortesia_" + name + ".pdf", nil
}
