package billing

import (
	"fmt"

	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

// invoiceBundle factura con todo lo necesario para generar XML o PDF.
type invoiceBundle struct {
	invoice *entity.Invoice
	company *entity.Company
	client  *entity.Client
	lines   []*entity.InvoiceLine
}

type invoiceLoader struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
}

// load recupera factura, empresa, cliente y líneas. Con companyID vacío no se comprueba el tenant
// (uso interno del orquestador).
func (l invoiceLoader) load(companyID, invoiceID string) (*invoiceBundle, error) {
	inv, err := l.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if companyID != "" && inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	company, err := l.companyRepo.GetByID(inv.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s: %w", inv.CompanyID, domain.ErrNotFound)
	}

	client, err := l.clientRepo.GetByID(inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("cliente %s: %w", inv.ClientID, domain.ErrNotFound)
	}

	lines, err := l.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}
	return &invoiceBundle{invoice: inv, company: company, client: client, lines: lines}, nil
}
