package billing_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
)

func newFatturaPAUC(s *memStore) *billing.FatturaPAUseCase {
	return billing.NewFatturaPAUseCase(
		memInvoiceRepo{s}, memCompanyRepo{s}, memClientRepo{s},
		infrafatturapa.NewXMLBuilderService(testNow), testNow,
	)
}

func TestValidate_RequestValido(t *testing.T) {
	res, err := newFatturaPAUC(newMemStore()).Validate(validRequest())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_TodasLasReglas(t *testing.T) {
	res, err := newFatturaPAUC(newMemStore()).Validate(dto.FatturaPARequest{})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	fields := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"company.partitaIva", "company.ragioneSociale", "client.vatNumber", "lineItems"}, fields)
}

func TestValidate_ImporteNoNumerico(t *testing.T) {
	req := validRequest()
	req.LineItems[1].UnitPrice = "dieci"

	_, err := newFatturaPAUC(newMemStore()).Validate(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "lineItems[1].unitPrice")
}

func TestGenerate_ConservaPrecisionDeJSONNumber(t *testing.T) {
	req := validRequest()
	req.Invoice.Total = json.Number("1220.005")

	out, err := newFatturaPAUC(newMemStore()).Generate(req)
	require.NoError(t, err)
	assert.Equal(t, "IT01234567890_26001.xml", out.Filename)
	assert.Contains(t, out.XML, "<ImportoTotaleDocumento>1220.01</ImportoTotaleDocumento>")
	assert.Contains(t, out.XML, "<Data>2026-03-10</Data>")
}

func TestGenerate_InvalidaDevuelveValidationErrors(t *testing.T) {
	req := validRequest()
	req.LineItems = nil

	_, err := newFatturaPAUC(newMemStore()).Generate(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domfatturapa.ErrInvalidInvoice)

	var verrs domfatturapa.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "lineItems", verrs[0].Field)
}

func TestGenerateForInvoice_PersisteXMLYEstado(t *testing.T) {
	s := seed()
	out, err := newFatturaPAUC(s).GenerateForInvoice(context.Background(), companyID, invoiceID)
	require.NoError(t, err)

	inv := s.invoice(t, invoiceID)
	assert.Equal(t, entity.SDIStatusGenerated, inv.SDIStatus)
	assert.Equal(t, "IT01234567890_26001.xml", inv.XMLFilename)
	assert.Equal(t, out.XML, inv.XMLFatturaPA)

	// las líneas salen ordenadas por sortOrder
	assert.Less(t, strings.Index(out.XML, "Sviluppo"), strings.Index(out.XML, "Assistenza"))
	assert.Contains(t, out.XML, "<CodiceDestinatario>ABC1234</CodiceDestinatario>")
}

func TestGenerateForInvoice_Errores(t *testing.T) {
	t.Run("otra empresa", func(t *testing.T) {
		_, err := newFatturaPAUC(seed()).GenerateForInvoice(context.Background(), "co-2", invoiceID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("inexistente", func(t *testing.T) {
		_, err := newFatturaPAUC(seed()).GenerateForInvoice(context.Background(), companyID, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("ya enviada", func(t *testing.T) {
		s := seed()
		inv := s.invoices[invoiceID]
		inv.SDIStatus = entity.SDIStatusSubmitted
		s.invoices[invoiceID] = inv

		_, err := newFatturaPAUC(s).GenerateForInvoice(context.Background(), companyID, invoiceID)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
	t.Run("cliente sin identificativo fiscal", func(t *testing.T) {
		s := seed()
		c := s.clients[clientID]
		c.VatNumber = ""
		s.clients[clientID] = c

		_, err := newFatturaPAUC(s).GenerateForInvoice(context.Background(), companyID, invoiceID)
		assert.ErrorIs(t, err, domfatturapa.ErrInvalidInvoice)

		inv := s.invoice(t, invoiceID)
		assert.Equal(t, entity.SDIStatusErrorGeneration, inv.SDIStatus)
		assert.Contains(t, inv.SDIErrors, domfatturapa.MsgClientTaxIDRequired)
		assert.Empty(t, inv.XMLFatturaPA)
	})
}

func TestExportZip(t *testing.T) {
	s := seed()
	second := s.invoices[invoiceID]
	second.ID, second.Number = "inv-2", "FT-2026/002"
	s.invoices["inv-2"] = second
	s.lines["inv-2"] = s.lines[invoiceID]

	uc := newFatturaPAUC(s)
	ctx := context.Background()

	_, _, err := uc.ExportZip(ctx, companyID, []string{invoiceID, "inv-2"})
	require.ErrorIs(t, err, domain.ErrNotGenerated)

	for _, id := range []string{invoiceID, "inv-2"} {
		_, err := uc.GenerateForInvoice(ctx, companyID, id)
		require.NoError(t, err)
	}

	data, name, err := uc.ExportZip(ctx, companyID, []string{invoiceID, "inv-2", invoiceID})
	require.NoError(t, err)
	assert.Equal(t, "fatturapa_20260315.zip", name)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"IT01234567890_26001.xml", "IT01234567890_26002.xml"}, names)

	_, _, err = uc.ExportZip(ctx, "co-2", []string{invoiceID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.ExportZip(ctx, companyID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInspect_DocumentoGenerado(t *testing.T) {
	uc := newFatturaPAUC(newMemStore())
	out, err := uc.Generate(validRequest())
	require.NoError(t, err)

	sum, err := uc.Inspect([]byte(out.XML))
	require.NoError(t, err)
	assert.Equal(t, "FT2026001", sum.ProgressivoInvio)
	assert.Equal(t, 2, sum.Lines)

	_, err = uc.Inspect([]byte("<html/>"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
