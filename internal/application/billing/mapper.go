package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
)

// ParamsFromRequest convierte el cuerpo JSON en Params tipados.
// Un importe no numérico devuelve domain.ErrInvalidInput con el nombre del campo.
func ParamsFromRequest(req dto.FatturaPARequest) (domfatturapa.Params, error) {
	p := domfatturapa.Params{
		Company: req.Company,
		Client:  req.Client,
		Invoice: domfatturapa.InvoiceHeader{
			Number:        req.Invoice.Number,
			IssuedDate:    req.Invoice.IssuedDate,
			DueDate:       req.Invoice.DueDate,
			Notes:         req.Invoice.Notes,
			PaymentMethod: req.Invoice.PaymentMethod,
		},
	}

	var err error
	amounts := []struct {
		field string
		raw   any
		dst   *decimal.Decimal
	}{
		{"invoice.subtotal", req.Invoice.Subtotal, &p.Invoice.Subtotal},
		{"invoice.taxRate", req.Invoice.TaxRate, &p.Invoice.TaxRate},
		{"invoice.taxAmount", req.Invoice.TaxAmount, &p.Invoice.TaxAmount},
		{"invoice.total", req.Invoice.Total, &p.Invoice.Total},
		{"invoice.discount", req.Invoice.Discount, &p.Invoice.Discount},
	}
	for _, a := range amounts {
		if *a.dst, err = parseField(a.field, a.raw); err != nil {
			return domfatturapa.Params{}, err
		}
	}

	p.LineItems = make([]domfatturapa.LineItem, 0, len(req.LineItems))
	for i, li := range req.LineItems {
		item := domfatturapa.LineItem{Description: li.Description, SortOrder: li.SortOrder}
		prefix := fmt.Sprintf("lineItems[%d].", i)
		if item.Quantity, err = parseField(prefix+"quantity", li.Quantity); err != nil {
			return domfatturapa.Params{}, err
		}
		if item.UnitPrice, err = parseField(prefix+"unitPrice", li.UnitPrice); err != nil {
			return domfatturapa.Params{}, err
		}
		if item.Total, err = parseField(prefix+"total", li.Total); err != nil {
			return domfatturapa.Params{}, err
		}
		p.LineItems = append(p.LineItems, item)
	}
	return p, nil
}

func parseField(field string, raw any) (decimal.Decimal, error) {
	d, err := domfatturapa.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, field, err)
	}
	return d, nil
}

// ParamsFromEntities arma los Params de una factura persistida.
func ParamsFromEntities(
	company *entity.Company,
	client *entity.Client,
	inv *entity.Invoice,
	lines []*entity.InvoiceLine,
) domfatturapa.Params {
	p := domfatturapa.Params{
		Company: domfatturapa.CompanyInfo{
			RagioneSociale: company.RagioneSociale,
			PartitaIva:     company.PartitaIva,
			CodiceFiscale:  company.CodiceFiscale,
			Indirizzo:      company.Indirizzo,
			CAP:            company.CAP,
			Citta:          company.Citta,
			Provincia:      company.Provincia,
			Nazione:        company.Nazione,
			RegimeFiscale:  company.RegimeFiscale,
			IBAN:           company.IBAN,
			PEC:            company.PEC,
			Telefono:       company.Telefono,
			Email:          company.Email,
		},
		Client: domfatturapa.ClientInfo{
			CompanyName: client.CompanyName,
			VatNumber:   client.VatNumber,
			FiscalCode:  client.FiscalCode,
			PEC:         client.PEC,
			SDI:         client.SDI,
			Indirizzo:   client.Indirizzo,
			CAP:         client.CAP,
			Citta:       client.Citta,
			Provincia:   client.Provincia,
			Nazione:     client.Nazione,
		},
		Invoice: domfatturapa.InvoiceHeader{
			Number:        inv.Number,
			Subtotal:      inv.Subtotal,
			TaxRate:       inv.TaxRate,
			TaxAmount:     inv.TaxAmount,
			Total:         inv.Total,
			Discount:      inv.Discount,
			Notes:         inv.Notes,
			PaymentMethod: inv.PaymentMethod,
		},
		LineItems: make([]domfatturapa.LineItem, 0, len(lines)),
	}
	if !inv.IssuedDate.IsZero() {
		p.Invoice.IssuedDate = inv.IssuedDate.Format(domfatturapa.DateLayout)
	}
	if inv.DueDate != nil {
		p.Invoice.DueDate = inv.DueDate.Format(domfatturapa.DateLayout)
	}
	for _, l := range lines {
		p.LineItems = append(p.LineItems, domfatturapa.LineItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
			SortOrder:   l.SortOrder,
		})
	}
	return p
}

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:                inv.ID,
		CompanyID:         inv.CompanyID,
		ClientID:          inv.ClientID,
		Number:            inv.Number,
		IssuedDate:        inv.IssuedDate.Format(domfatturapa.DateLayout),
		Subtotal:          domfatturapa.FormatAmount(inv.Subtotal),
		TaxRate:           domfatturapa.FormatAmount(inv.TaxRate),
		TaxAmount:         domfatturapa.FormatAmount(inv.TaxAmount),
		Total:             domfatturapa.FormatAmount(inv.Total),
		Discount:          domfatturapa.FormatAmount(inv.Discount),
		Notes:             inv.Notes,
		PaymentMethod:     inv.PaymentMethod,
		SDIStatus:         inv.SDIStatus,
		XMLFilename:       inv.XMLFilename,
		SDIIdentificativo: inv.SDIIdentificativo,
		Lines:             make([]dto.InvoiceLineDTO, 0, len(lines)),
		CreatedAt:         inv.CreatedAt,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(domfatturapa.DateLayout)
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.InvoiceLineDTO{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   domfatturapa.FormatAmount(l.UnitPrice),
			Total:       domfatturapa.FormatAmount(l.Total),
			SortOrder:   l.SortOrder,
		})
	}
	return out
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		CompanyName: c.CompanyName,
		VatNumber:   c.VatNumber,
		FiscalCode:  c.FiscalCode,
		PEC:         c.PEC,
		SDI:         c.SDI,
		Indirizzo:   c.Indirizzo,
		CAP:         c.CAP,
		Citta:       c.Citta,
		Provincia:   c.Provincia,
		Nazione:     c.Nazione,
		Email:       c.Email,
	}
}
