package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, company_id, company_name, vat_number, fiscal_code, pec, sdi,
		       indirizzo, cap, citta, provincia, nazione, email, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.CompanyName,
		nullIfEmpty(c.VatNumber), nullIfEmpty(c.FiscalCode), nullIfEmpty(c.PEC), nullIfEmpty(c.SDI),
		nullIfEmpty(c.Indirizzo), nullIfEmpty(c.CAP), nullIfEmpty(c.Citta), nullIfEmpty(c.Provincia),
		c.Nazione, nullIfEmpty(c.Email), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	rows, err := r.q.Query(context.Background(), `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	list, err := scanClients(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByCompany lista los clientes de una empresa ordenados por nombre.
func (r *ClientRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1
		ORDER BY company_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return scanClients(rows)
}

func scanClients(rows pgx.Rows) ([]*entity.Client, error) {
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		var vat, cf, pec, sdi, indirizzo, codPostale, citta, provincia, email *string
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.CompanyName, &vat, &cf, &pec, &sdi,
			&indirizzo, &codPostale, &citta, &provincia, &c.Nazione, &email, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.VatNumber = derefStr(vat)
		c.FiscalCode = derefStr(cf)
		c.PEC = derefStr(pec)
		c.SDI = derefStr(sdi)
		c.Indirizzo = derefStr(indirizzo)
		c.CAP = derefStr(codPostale)
		c.Citta = derefStr(citta)
		c.Provincia = derefStr(provincia)
		c.Email = derefStr(email)
		list = append(list, &c)
	}
	return list, rows.Err()
}
