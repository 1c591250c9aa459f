package billing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
	pkgfatturapa "github.com/jhoicas/fatturapa-api/pkg/fatturapa"
)

var (
	regimeFiscaleRe = regexp.MustCompile(`^RF(0[1-9]|1[0-9])$`)
	partitaIvaITRe  = regexp.MustCompile(`^[0-9]{11}$`)
)

// CompanyUseCase gestiona el perfil fiscal (Cedente Prestatore) de la empresa del token.
// El ID de la empresa lo fija el emisor del JWT; aquí solo se guardan sus datos.
type CompanyUseCase struct {
	repo  repository.CompanyRepository
	clock domfatturapa.Clock
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository, clock domfatturapa.Clock) *CompanyUseCase {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &CompanyUseCase{repo: repo, clock: clock}
}

// Get devuelve el perfil de la empresa o domain.ErrNotFound si aún no se ha registrado.
func (uc *CompanyUseCase) Get(companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// Save crea o actualiza el perfil. Devuelve domain.ErrDuplicate si la P.IVA pertenece a otra empresa.
func (uc *CompanyUseCase) Save(companyID string, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.RagioneSociale)
	piva := strings.TrimSpace(in.PartitaIva)
	nazione := strings.ToUpper(strings.TrimSpace(in.Nazione))
	if nazione == "" {
		nazione = pkgfatturapa.NazioneDefault
	}
	regime := strings.ToUpper(strings.TrimSpace(in.RegimeFiscale))
	if regime == "" {
		regime = pkgfatturapa.RegimeFiscaleOrdinario
	}

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: ragioneSociale obbligatoria", domain.ErrInvalidInput)
	case piva == "":
		return nil, fmt.Errorf("%w: partitaIva obbligatoria", domain.ErrInvalidInput)
	case nazione == pkgfatturapa.NazioneDefault && !partitaIvaITRe.MatchString(piva):
		return nil, fmt.Errorf("%w: partitaIva italiana de 11 cifras", domain.ErrInvalidInput)
	case !regimeFiscaleRe.MatchString(regime):
		return nil, fmt.Errorf("%w: regimeFiscale %q fuera de RF01..RF19", domain.ErrInvalidInput, regime)
	}

	other, err := uc.repo.GetByPartitaIva(piva)
	if err != nil {
		return nil, fmt.Errorf("buscar P.IVA: %w", err)
	}
	if other != nil && other.ID != companyID {
		return nil, domain.ErrDuplicate
	}

	existing, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}

	now := uc.clock.Now()
	company := &entity.Company{
		ID:             companyID,
		RagioneSociale: name,
		PartitaIva:     piva,
		CodiceFiscale:  strings.ToUpper(strings.TrimSpace(in.CodiceFiscale)),
		Indirizzo:      strings.TrimSpace(in.Indirizzo),
		CAP:            strings.TrimSpace(in.CAP),
		Citta:          strings.TrimSpace(in.Citta),
		Provincia:      strings.ToUpper(strings.TrimSpace(in.Provincia)),
		Nazione:        nazione,
		RegimeFiscale:  regime,
		IBAN:           strings.ToUpper(strings.ReplaceAll(in.IBAN, " ", "")),
		PEC:            strings.TrimSpace(in.PEC),
		Telefono:       strings.TrimSpace(in.Telefono),
		Email:          strings.TrimSpace(in.Email),
		Status:         entity.CompanyStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if existing == nil {
		err = uc.repo.Create(company)
	} else {
		company.Status = existing.Status
		company.CreatedAt = existing.CreatedAt
		err = uc.repo.Update(company)
	}
	if err != nil {
		return nil, fmt.Errorf("guardar empresa: %w", err)
	}
	return toCompanyResponse(company), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:             c.ID,
		RagioneSociale: c.RagioneSociale,
		PartitaIva:     c.PartitaIva,
		CodiceFiscale:  c.CodiceFiscale,
		Indirizzo:      c.Indirizzo,
		CAP:            c.CAP,
		Citta:          c.Citta,
		Provincia:      c.Provincia,
		Nazione:        c.Nazione,
		RegimeFiscale:  c.RegimeFiscale,
		IBAN:           c.IBAN,
		PEC:            c.PEC,
		Telefono:       c.Telefono,
		Email:          c.Email,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
