package repository

import "github.com/jhoicas/fatturapa-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	// Update actualiza los campos SdI de la factura:
	// sdi_status, xml_fatturapa, xml_filename, sdi_identificativo, sdi_errors.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetLinesByInvoiceID devuelve las líneas ordenadas por sort_order.
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	// GetSDIStatus devuelve solo los campos de estado (ligero, para polling).
	GetSDIStatus(id string) (*entity.Invoice, error)
}
