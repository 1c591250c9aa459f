package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
)

type fakePDF struct {
	lines int
}

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice, _ *entity.Company, _ *entity.Client, lines []*entity.InvoiceLine) ([]byte, error) {
	f.lines = len(lines)
	return []byte("%PDF-1.3 fake"), nil
}

func TestDownloadCourtesyCopy(t *testing.T) {
	s := seed()
	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(memInvoiceRepo{s}, memCompanyRepo{s}, memClientRepo{s}, gen)
	ctx := context.Background()

	_, _, err := uc.DownloadCourtesyCopy(ctx, companyID, invoiceID)
	require.ErrorIs(t, err, domain.ErrNotGenerated)

	_, err = newFatturaPAUC(s).GenerateForInvoice(ctx, companyID, invoiceID)
	require.NoError(t, err)

	pdf, name, err := uc.DownloadCourtesyCopy(ctx, companyID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "copia_cortesia_IT01234567890_26001.pdf", name)
	assert.Equal(t, "%PDF-1.3 fake", string(pdf))
	assert.Equal(t, 2, gen.lines)

	_, _, err = uc.DownloadCourtesyCopy(ctx, "co-2", invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
