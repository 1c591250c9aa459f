package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, client_id, number, issued_date, due_date,
		                      subtotal, tax_rate, tax_amount, total, discount, notes, payment_method,
		                      sdi_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CompanyID, inv.ClientID, inv.Number, inv.IssuedDate, inv.DueDate,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Discount,
		nullIfEmpty(inv.Notes), nullIfEmpty(inv.PaymentMethod),
		inv.SDIStatus, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, description, quantity, unit_price, total, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.Description, line.Quantity, line.UnitPrice, line.Total, line.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update actualiza los campos SdI de la factura. xml_fatturapa vacío conserva el valor previo.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET sdi_status         = $2,
		    xml_fatturapa      = COALESCE($3, xml_fatturapa),
		    xml_filename       = COALESCE($4, xml_filename),
		    sdi_identificativo = COALESCE($5, sdi_identificativo),
		    sdi_errors         = $6,
		    updated_at         = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		inv.ID,
		inv.SDIStatus,
		nullIfEmpty(inv.XMLFatturaPA),
		nullIfEmpty(inv.XMLFilename),
		nullIfEmpty(inv.SDIIdentificativo),
		nullIfEmpty(inv.SDIErrors),
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, company_id, client_id, number, issued_date, due_date,
		       subtotal, tax_rate, tax_amount, total, discount, notes, payment_method,
		       sdi_status, xml_fatturapa, xml_filename, sdi_identificativo, sdi_errors,
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	var dueDate *time.Time
	var notes, paymentMethod, xml, filename, identificativo, sdiErrors *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.IssuedDate, &dueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Discount, &notes, &paymentMethod,
		&inv.SDIStatus, &xml, &filename, &identificativo, &sdiErrors,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.DueDate = dueDate
	inv.Notes = derefStr(notes)
	inv.PaymentMethod = derefStr(paymentMethod)
	inv.XMLFatturaPA = derefStr(xml)
	inv.XMLFilename = derefStr(filename)
	inv.SDIIdentificativo = derefStr(identificativo)
	inv.SDIErrors = derefStr(sdiErrors)
	return &inv, nil
}

// GetSDIStatus devuelve solo los campos de estado (consulta ligera para polling).
func (r *InvoiceRepo) GetSDIStatus(id string) (*entity.Invoice, error) {
	const query = `
		SELECT id, company_id, number, sdi_status,
		       COALESCE(xml_filename, ''), COALESCE(sdi_identificativo, ''), COALESCE(sdi_errors, ''),
		       updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.Number, &inv.SDIStatus,
		&inv.XMLFilename, &inv.SDIIdentificativo, &inv.SDIErrors,
		&inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice sdi status: %w", err)
	}
	return &inv, nil
}

// GetLinesByInvoiceID obtiene las líneas de una factura ordenadas por sort_order.
func (r *InvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, sort_order
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY sort_order, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitPrice, &l.Total, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
