package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, ragione_sociale, partita_iva, codice_fiscale, indirizzo, cap, citta, provincia,
		       nazione, regime_fiscale, iban, pec, telefono, email, status, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.RagioneSociale, c.PartitaIva, nullIfEmpty(c.CodiceFiscale),
		c.Indirizzo, c.CAP, c.Citta, nullIfEmpty(c.Provincia), c.Nazione, c.RegimeFiscale,
		nullIfEmpty(c.IBAN), nullIfEmpty(c.PEC), nullIfEmpty(c.Telefono), nullIfEmpty(c.Email),
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.getOne(`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByPartitaIva obtiene una empresa por Partita IVA.
func (r *CompanyRepo) GetByPartitaIva(partitaIva string) (*entity.Company, error) {
	return r.getOne(`SELECT `+companyColumns+` FROM companies WHERE partita_iva = $1`, partitaIva)
}

func (r *CompanyRepo) getOne(query string, arg string) (*entity.Company, error) {
	var c entity.Company
	var codiceFiscale, provincia, iban, pec, telefono, email *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.RagioneSociale, &c.PartitaIva, &codiceFiscale,
		&c.Indirizzo, &c.CAP, &c.Citta, &provincia, &c.Nazione, &c.RegimeFiscale,
		&iban, &pec, &telefono, &email,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.CodiceFiscale = derefStr(codiceFiscale)
	c.Provincia = derefStr(provincia)
	c.IBAN = derefStr(iban)
	c.PEC = derefStr(pec)
	c.Telefono = derefStr(telefono)
	c.Email = derefStr(email)
	return &c, nil
}

// Update actualiza los datos fiscales y de contacto de la empresa.
func (r *CompanyRepo) Update(c *entity.Company) error {
	query := `
		UPDATE companies
		SET ragione_sociale = $2, partita_iva = $3, codice_fiscale = $4,
		    indirizzo = $5, cap = $6, citta = $7, provincia = $8, nazione = $9,
		    regime_fiscale = $10, iban = $11, pec = $12, telefono = $13, email = $14,
		    status = $15, updated_at = $16
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.RagioneSociale, c.PartitaIva, nullIfEmpty(c.CodiceFiscale),
		c.Indirizzo, c.CAP, c.Citta, nullIfEmpty(c.Provincia), c.Nazione,
		c.RegimeFiscale, nullIfEmpty(c.IBAN), nullIfEmpty(c.PEC), nullIfEmpty(c.Telefono), nullIfEmpty(c.Email),
		c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
