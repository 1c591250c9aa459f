package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	"github.com/jhoicas/fatturapa-api/internal/infrastructure/pdf"
)

func sampleEntities() (*entity.Invoice, *entity.Company, *entity.Client, []*entity.InvoiceLine) {
	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		ID:            "inv-1",
		CompanyID:     "co-1",
		ClientID:      "cl-1",
		Number:        "FT-2026/001",
		IssuedDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
		Subtotal:      decimal.RequireFromString("1000"),
		TaxRate:       decimal.RequireFromString("22"),
		TaxAmount:     decimal.RequireFromString("220"),
		Total:         decimal.RequireFromString("1220"),
		Discount:      decimal.Zero,
		Notes:         "Consulenza marzo",
		PaymentMethod: "bank_transfer",
		SDIStatus:     entity.SDIStatusSubmitted,
		XMLFilename:   "IT01234567890_26001.xml",
	}
	company := &entity.Company{
		ID: "co-1", RagioneSociale: "Rossi S.r.l.", PartitaIva: "01234567890",
		Indirizzo: "Via Roma 1", CAP: "00100", Citta: "Roma", Provincia: "RM", Nazione: "IT",
		IBAN: "IT60X0542811101000000123456",
	}
	client := &entity.Client{ID: "cl-1", CompanyName: "Bianchi S.p.A.", VatNumber: "09876543210", SDI: "ABC1234"}
	lines := []*entity.InvoiceLine{
		{ID: "l1", Description: "Sviluppo software", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(80), Total: decimal.NewFromInt(800), SortOrder: 1},
		{ID: "l2", Description: "Assistenza", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200), Total: decimal.NewFromInt(200), SortOrder: 2},
	}
	return inv, company, client, lines
}

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	inv, company, client, lines := sampleEntities()

	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, company, client, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinXMLNiOpcionales(t *testing.T) {
	inv, company, client, lines := sampleEntities()
	inv.XMLFilename = ""
	inv.DueDate = nil
	inv.Notes = ""
	inv.PaymentMethod = ""
	inv.Discount = decimal.NewFromInt(50)
	client.SDI = ""
	client.PEC = "bianchi@pec.it"
	company.IBAN = ""

	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, company, client, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
