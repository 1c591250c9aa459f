package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// InvoiceUseCase alta y consulta de facturas.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
	clock       domfatturapa.Clock
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	clock domfatturapa.Clock,
) *InvoiceUseCase {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &InvoiceUseCase{txRunner: txRunner, clientRepo: clientRepo, invoiceRepo: invoiceRepo, clock: clock}
}

// Create guarda cabecera y líneas en una sola transacción con estado DRAFT.
// Subtotal, IVA y total se calculan aquí:
//
//	línea     = cantidad × precio (2 decimales)
//	imponible = Σ líneas − descuento
//	IVA       = imponible × alícuota / 100 (2 decimales)
//	total     = imponible + IVA
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if strings.TrimSpace(in.ClientID) == "" || strings.TrimSpace(in.Number) == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	taxRate, err := parseField("taxRate", in.TaxRate)
	if err != nil {
		return nil, err
	}
	discount, err := parseField("discount", in.Discount)
	if err != nil {
		return nil, err
	}
	if taxRate.IsNegative() || discount.IsNegative() {
		return nil, fmt.Errorf("%w: importes negativos", domain.ErrInvalidInput)
	}

	now := uc.clock.Now()
	issued := now.UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(in.IssuedDate) != "" {
		t, ok := domfatturapa.ParseDate(in.IssuedDate)
		if !ok {
			return nil, fmt.Errorf("%w: issuedDate %q", domain.ErrInvalidInput, in.IssuedDate)
		}
		issued = t
	}
	var due *time.Time
	if strings.TrimSpace(in.DueDate) != "" {
		t, ok := domfatturapa.ParseDate(in.DueDate)
		if !ok {
			return nil, fmt.Errorf("%w: dueDate %q", domain.ErrInvalidInput, in.DueDate)
		}
		due = &t
	}

	invoiceID := uuid.New().String()
	lines := make([]*entity.InvoiceLine, 0, len(in.Items))
	subtotal := decimal.Zero
	for i, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("%w: items[%d].description", domain.ErrInvalidInput, i)
		}
		qty, err := parseField(fmt.Sprintf("items[%d].quantity", i), item.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := parseField(fmt.Sprintf("items[%d].unitPrice", i), item.UnitPrice)
		if err != nil {
			return nil, err
		}
		if !qty.GreaterThan(decimal.Zero) || price.IsNegative() {
			return nil, fmt.Errorf("%w: items[%d]", domain.ErrInvalidInput, i)
		}
		total := qty.Mul(price).Round(2)
		subtotal = subtotal.Add(total)
		sortOrder := item.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		lines = append(lines, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       total,
			SortOrder:   sortOrder,
		})
	}
	if discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: el descuento supera el subtotal", domain.ErrInvalidInput)
	}
	taxable := subtotal.Sub(discount)
	taxAmount := taxable.Mul(taxRate).Div(hundred).Round(2)

	inv := &entity.Invoice{
		ID:            invoiceID,
		CompanyID:     companyID,
		ClientID:      client.ID,
		Number:        strings.TrimSpace(in.Number),
		IssuedDate:    issued,
		DueDate:       due,
		Subtotal:      subtotal,
		TaxRate:       taxRate,
		TaxAmount:     taxAmount,
		Total:         taxable.Add(taxAmount),
		Discount:      discount,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		SDIStatus:     entity.SDIStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.RunBilling(ctx, func(_ repository.ClientRepository, invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, l := range lines {
			if err := invoiceRepo.CreateLine(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// Get devuelve la factura con sus líneas ordenadas.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// GetStatus consulta ligera del estado SdI.
func (uc *InvoiceUseCase) GetStatus(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceSDIStatusDTO, error) {
	inv, err := uc.invoiceRepo.GetSDIStatus(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return &dto.InvoiceSDIStatusDTO{
		ID:                inv.ID,
		SDIStatus:         inv.SDIStatus,
		XMLFilename:       inv.XMLFilename,
		SDIIdentificativo: inv.SDIIdentificativo,
		SDIErrors:         inv.SDIErrors,
		UpdatedAt:         inv.UpdatedAt,
	}, nil
}
