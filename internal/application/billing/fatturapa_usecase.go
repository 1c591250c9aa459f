package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
)

// FatturaPAUseCase validación, generación e inspección de documentos FatturaPA.
type FatturaPAUseCase struct {
	loader      invoiceLoader
	invoiceRepo repository.InvoiceRepository
	builder     XMLGenerator
	clock       domfatturapa.Clock
}

// NewFatturaPAUseCase construye el caso de uso. Con clock nil se usa el reloj del sistema.
func NewFatturaPAUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	builder XMLGenerator,
	clock domfatturapa.Clock,
) *FatturaPAUseCase {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &FatturaPAUseCase{
		loader:      invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, clientRepo: clientRepo},
		invoiceRepo: invoiceRepo,
		builder:     builder,
		clock:       clock,
	}
}

// Validate convierte los importes y aplica las reglas mínimas del SdI.
// Solo devuelve error si algún importe no es numérico.
func (uc *FatturaPAUseCase) Validate(req dto.FatturaPARequest) (*dto.ValidateResponse, error) {
	p, err := ParamsFromRequest(req)
	if err != nil {
		return nil, err
	}
	errs := domfatturapa.Validate(p)
	return &dto.ValidateResponse{Valid: len(errs) == 0, Errors: errs}, nil
}

// Generate valida y genera el XML sin persistir nada.
// Si la factura no es válida devuelve domfatturapa.ValidationErrors.
func (uc *FatturaPAUseCase) Generate(req dto.FatturaPARequest) (*dto.GeneratedFatturaPA, error) {
	p, err := ParamsFromRequest(req)
	if err != nil {
		return nil, err
	}
	if errs := domfatturapa.Validate(p); len(errs) > 0 {
		return nil, errs
	}
	return &dto.GeneratedFatturaPA{
		XML:      uc.builder.Build(p),
		Filename: infrafatturapa.SDIFilename(p.Company, p.Invoice.Number),
	}, nil
}

// GenerateForInvoice genera el XML de una factura guardada y lo persiste con estado GENERATED.
// Una factura ya firmada o enviada no se regenera (domain.ErrConflict).
func (uc *FatturaPAUseCase) GenerateForInvoice(ctx context.Context, companyID, invoiceID string) (*dto.GeneratedFatturaPA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := uc.loader.load(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv := b.invoice
	switch inv.SDIStatus {
	case entity.SDIStatusSigned, entity.SDIStatusSubmitted:
		return nil, fmt.Errorf("%w: factura en estado %s", domain.ErrConflict, inv.SDIStatus)
	}

	p := ParamsFromEntities(b.company, b.client, inv, b.lines)
	if errs := domfatturapa.Validate(p); len(errs) > 0 {
		inv.SDIStatus = entity.SDIStatusErrorGeneration
		inv.SDIErrors = errs.Error()
		inv.UpdatedAt = uc.clock.Now()
		if err := uc.invoiceRepo.Update(inv); err != nil {
			return nil, fmt.Errorf("persistir ERROR_GENERATION: %w", err)
		}
		return nil, errs
	}

	out := &dto.GeneratedFatturaPA{
		XML:      uc.builder.Build(p),
		Filename: infrafatturapa.SDIFilename(p.Company, p.Invoice.Number),
	}
	inv.XMLFatturaPA = out.XML
	inv.XMLFilename = out.Filename
	inv.SDIStatus = entity.SDIStatusGenerated
	inv.SDIErrors = ""
	inv.UpdatedAt = uc.clock.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, fmt.Errorf("persistir XML: %w", err)
	}
	return out, nil
}

// ExportZip empaqueta en un ZIP los XML ya generados de las facturas indicadas.
// Devuelve domain.ErrNotGenerated si alguna aún no tiene XML.
func (uc *FatturaPAUseCase) ExportZip(ctx context.Context, companyID string, invoiceIDs []string) ([]byte, string, error) {
	if len(invoiceIDs) == 0 {
		return nil, "", fmt.Errorf("%w: sin facturas para exportar", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(invoiceIDs))
	entries := make([]infrafatturapa.ZipEntry, 0, len(invoiceIDs))
	for _, id := range invoiceIDs {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		inv, err := uc.invoiceRepo.GetByID(id)
		if err != nil {
			return nil, "", fmt.Errorf("obtener factura %s: %w", id, err)
		}
		if inv == nil {
			return nil, "", fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
		}
		if inv.CompanyID != companyID {
			return nil, "", domain.ErrForbidden
		}
		if !inv.HasXML() {
			return nil, "", fmt.Errorf("factura %s: %w", inv.Number, domain.ErrNotGenerated)
		}
		entries = append(entries, infrafatturapa.ZipEntry{Name: inv.XMLFilename, Data: []byte(inv.XMLFatturaPA)})
	}

	zipBytes, err := infrafatturapa.CompressToZip(entries)
	if err != nil {
		return nil, "", fmt.Errorf("zip: %w", err)
	}
	name := "fatturapa_" + uc.clock.Now().UTC().Format("20060102") + ".zip"
	return zipBytes, name, nil
}

// Inspect resume un XML FatturaPA (generado aquí o recibido de terceros).
func (uc *FatturaPAUseCase) Inspect(xmlBytes []byte) (*infrafatturapa.Summary, error) {
	s, err := infrafatturapa.Inspect(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s, nil
}
