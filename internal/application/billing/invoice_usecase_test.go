package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
)

func newInvoiceUC(s *memStore) *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(fakeTx{s}, memClientRepo{s}, memInvoiceRepo{s}, testNow)
}

func createRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID:      clientID,
		Number:        "FT-2026/010",
		IssuedDate:    "2026-03-12",
		DueDate:       "2026-04-11",
		TaxRate:       22,
		PaymentMethod: "bank_transfer",
		Items: []dto.InvoiceItemRequest{
			{Description: "Assistenza", Quantity: 1, UnitPrice: "200", SortOrder: 2},
			{Description: "Sviluppo", Quantity: "10", UnitPrice: 80, SortOrder: 1},
		},
	}
}

func TestCreateInvoice_CalculaTotales(t *testing.T) {
	s := seed()
	res, err := newInvoiceUC(s).Create(context.Background(), companyID, createRequest())
	require.NoError(t, err)

	assert.Equal(t, "1000.00", res.Subtotal)
	assert.Equal(t, "220.00", res.TaxAmount)
	assert.Equal(t, "1220.00", res.Total)
	assert.Equal(t, "2026-03-12", res.IssuedDate)
	assert.Equal(t, "2026-04-11", res.DueDate)
	assert.Equal(t, entity.SDIStatusDraft, res.SDIStatus)
	require.Len(t, res.Lines, 2)

	inv := s.invoice(t, res.ID)
	assert.Equal(t, companyID, inv.CompanyID)
	assert.Len(t, s.lines[res.ID], 2)
}

func TestCreateInvoice_ConDescuento(t *testing.T) {
	req := createRequest()
	req.Discount = "100"

	res, err := newInvoiceUC(seed()).Create(context.Background(), companyID, req)
	require.NoError(t, err)
	assert.Equal(t, "100.00", res.Discount)
	assert.Equal(t, "198.00", res.TaxAmount)
	assert.Equal(t, "1098.00", res.Total)
}

func TestCreateInvoice_SinFechaUsaHoy(t *testing.T) {
	req := createRequest()
	req.IssuedDate = ""
	req.DueDate = ""

	res, err := newInvoiceUC(seed()).Create(context.Background(), companyID, req)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", res.IssuedDate)
	assert.Empty(t, res.DueDate)
}

func TestCreateInvoice_Errores(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
		want   error
	}{
		{"sin líneas", func(r *dto.CreateInvoiceRequest) { r.Items = nil }, domain.ErrInvalidInput},
		{"sin número", func(r *dto.CreateInvoiceRequest) { r.Number = " " }, domain.ErrInvalidInput},
		{"cliente inexistente", func(r *dto.CreateInvoiceRequest) { r.ClientID = "nope" }, domain.ErrNotFound},
		{"fecha inválida", func(r *dto.CreateInvoiceRequest) { r.IssuedDate = "12/03/2026" }, domain.ErrInvalidInput},
		{"cantidad cero", func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = 0 }, domain.ErrInvalidInput},
		{"importe no numérico", func(r *dto.CreateInvoiceRequest) { r.TaxRate = "ventidue" }, domain.ErrInvalidInput},
		{"descuento mayor al subtotal", func(r *dto.CreateInvoiceRequest) { r.Discount = 5000 }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createRequest()
			tc.mutate(&req)
			_, err := newInvoiceUC(seed()).Create(context.Background(), companyID, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateInvoice_ClienteDeOtraEmpresa(t *testing.T) {
	_, err := newInvoiceUC(seed()).Create(context.Background(), "co-2", createRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_NumeroDuplicadoHaceRollback(t *testing.T) {
	s := seed()
	req := createRequest()
	req.Number = "FT-2026/001"

	_, err := newInvoiceUC(s).Create(context.Background(), companyID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, s.invoices, 1)
}

func TestGetInvoice_LineasOrdenadas(t *testing.T) {
	res, err := newInvoiceUC(seed()).Get(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "Sviluppo", res.Lines[0].Description)
	assert.Equal(t, "Assistenza", res.Lines[1].Description)

	_, err = newInvoiceUC(seed()).Get(context.Background(), "co-2", invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetStatus(t *testing.T) {
	st, err := newInvoiceUC(seed()).GetStatus(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, entity.SDIStatusDraft, st.SDIStatus)

	_, err = newInvoiceUC(seed()).GetStatus(context.Background(), companyID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
