package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
)

func TestCompany_SaveCreaPerfil(t *testing.T) {
	s := newMemStore()
	uc := billing.NewCompanyUseCase(memCompanyRepo{s}, testNow)

	res, err := uc.Save("co-nueva", dto.CompanyRequest{
		RagioneSociale: " Verdi S.r.l. ",
		PartitaIva:     "11122233344",
		Provincia:      "mi",
		IBAN:           "it60 x054 2811 1010 0000 0123 456",
	})
	require.NoError(t, err)
	assert.Equal(t, "co-nueva", res.ID)
	assert.Equal(t, "Verdi S.r.l.", res.RagioneSociale)
	assert.Equal(t, "IT", res.Nazione)
	assert.Equal(t, "RF01", res.RegimeFiscale)
	assert.Equal(t, "MI", res.Provincia)
	assert.Equal(t, "IT60X0542811101000000123456", res.IBAN)
	assert.Equal(t, entity.CompanyStatusActive, res.Status)

	got, err := uc.Get("co-nueva")
	require.NoError(t, err)
	assert.Equal(t, res.PartitaIva, got.PartitaIva)
}

func TestCompany_SaveActualizaConservandoAlta(t *testing.T) {
	s := seed()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := s.companies[companyID]
	c.CreatedAt = created
	c.Status = entity.CompanyStatusSuspended
	s.companies[companyID] = c

	uc := billing.NewCompanyUseCase(memCompanyRepo{s}, testNow)
	res, err := uc.Save(companyID, dto.CompanyRequest{
		RagioneSociale: "Rossi Forniture S.p.A.",
		PartitaIva:     "01234567890",
		RegimeFiscale:  "rf19",
	})
	require.NoError(t, err)
	assert.Equal(t, "RF19", res.RegimeFiscale)
	assert.Equal(t, created, res.CreatedAt)
	assert.Equal(t, entity.CompanyStatusSuspended, res.Status)
	assert.Equal(t, "Rossi Forniture S.p.A.", s.companies[companyID].RagioneSociale)
}

func TestCompany_Errores(t *testing.T) {
	uc := billing.NewCompanyUseCase(memCompanyRepo{seed()}, testNow)

	cases := []struct {
		name string
		in   dto.CompanyRequest
		want error
	}{
		{"sin ragione sociale", dto.CompanyRequest{PartitaIva: "11122233344"}, domain.ErrInvalidInput},
		{"sin partita iva", dto.CompanyRequest{RagioneSociale: "Verdi"}, domain.ErrInvalidInput},
		{"partita iva italiana corta", dto.CompanyRequest{RagioneSociale: "Verdi", PartitaIva: "123"}, domain.ErrInvalidInput},
		{"regime desconocido", dto.CompanyRequest{RagioneSociale: "Verdi", PartitaIva: "11122233344", RegimeFiscale: "RF20"}, domain.ErrInvalidInput},
		{"partita iva de otra empresa", dto.CompanyRequest{RagioneSociale: "Verdi", PartitaIva: "01234567890"}, domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Save("co-otra", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCompany_SaveExtranjeraSinFormatoItaliano(t *testing.T) {
	uc := billing.NewCompanyUseCase(memCompanyRepo{newMemStore()}, testNow)
	res, err := uc.Save("co-de", dto.CompanyRequest{RagioneSociale: "Müller GmbH", PartitaIva: "DE123456789", Nazione: "de"})
	require.NoError(t, err)
	assert.Equal(t, "DE", res.Nazione)
}

func TestCompany_GetNoRegistrada(t *testing.T) {
	uc := billing.NewCompanyUseCase(memCompanyRepo{newMemStore()}, testNow)
	_, err := uc.Get("co-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
