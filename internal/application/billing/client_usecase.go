package billing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes (Cessionario Committente).
type ClientUseCase struct {
	repo  repository.ClientRepository
	clock domfatturapa.Clock
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, clock domfatturapa.Clock) *ClientUseCase {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &ClientUseCase{repo: repo, clock: clock}
}

// Create crea un cliente. Exige denominación y al menos P.IVA o Codice Fiscale.
func (uc *ClientUseCase) Create(companyID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.CompanyName)
	vat := strings.TrimSpace(in.VatNumber)
	cf := strings.ToUpper(strings.TrimSpace(in.FiscalCode))
	if name == "" || (vat == "" && cf == "") {
		return nil, domain.ErrInvalidInput
	}
	sdi := strings.ToUpper(strings.TrimSpace(in.SDI))
	if sdi != "" && len(sdi) != 7 {
		return nil, domain.ErrInvalidInput
	}
	nazione := strings.ToUpper(strings.TrimSpace(in.Nazione))
	if nazione == "" {
		nazione = "IT"
	}

	now := uc.clock.Now()
	client := &entity.Client{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CompanyName: name,
		VatNumber:   vat,
		FiscalCode:  cf,
		PEC:         strings.TrimSpace(in.PEC),
		SDI:         sdi,
		Indirizzo:   in.Indirizzo,
		CAP:         in.CAP,
		Citta:       in.Citta,
		Provincia:   strings.ToUpper(in.Provincia),
		Nazione:     nazione,
		Email:       in.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes de la empresa.
func (uc *ClientUseCase) List(companyID string, limit, offset int) ([]*dto.ClientResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}
