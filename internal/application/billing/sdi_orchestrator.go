package billing

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa/signer"
	pkgfatturapa "github.com/jhoicas/fatturapa-api/pkg/fatturapa"
)

const processTimeout = 30 * time.Second

// SDIOrchestrator orquesta el ciclo completo de envío al SdI:
//
//	Validación → XML FPR12 → Firma XAdES-BES → Envío SOAP (SdIRiceviFile) → Update DB
//
// Se ejecuta en goroutine independiente (ProcessAsync) con su propio contexto y timeout de 30 s,
// desacoplado del ciclo HTTP.
//
// Modos de operación (SDIConfig.AppEnv):
//   - "dev"  → firma solo si hay certificado; no envía. Estado final: SUBMITTED (simulado).
//   - "test" → envía a testservizi.fatturapa.it; certificado obligatorio.
//   - "prod" → envía a servizi.fatturapa.it; certificado obligatorio.
type SDIOrchestrator struct {
	loader      invoiceLoader
	invoiceRepo repository.InvoiceRepository
	builder     XMLGenerator
	signer      pkgfatturapa.Signer
	submitter   infrafatturapa.SDISubmitter // nil en dev
	loadCert    CertificateLoader
	cfg         SDIConfig
	clock       domfatturapa.Clock
	log         zerolog.Logger
}

// NewSDIOrchestrator construye el orquestador. submitter puede ser nil: en ese caso solo funciona el modo dev.
func NewSDIOrchestrator(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	builder XMLGenerator,
	sign pkgfatturapa.Signer,
	submitter infrafatturapa.SDISubmitter,
	cfg SDIConfig,
	clock domfatturapa.Clock,
	log zerolog.Logger,
) *SDIOrchestrator {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &SDIOrchestrator{
		loader:      invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, clientRepo: clientRepo},
		invoiceRepo: invoiceRepo,
		builder:     builder,
		signer:      sign,
		submitter:   submitter,
		loadCert:    signer.LoadCertificate,
		cfg:         cfg,
		clock:       clock,
		log:         log.With().Str("component", "sdi").Logger(),
	}
}

// WithCertificateLoader reemplaza la carga del certificado (tests).
func (o *SDIOrchestrator) WithCertificateLoader(fn CertificateLoader) *SDIOrchestrator {
	o.loadCert = fn
	return o
}

// Submit comprueba tenant y estado y encola el envío. No espera al resultado.
func (o *SDIOrchestrator) Submit(companyID, invoiceID string) error {
	inv, err := o.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !canProcess(inv.SDIStatus) {
		return fmt.Errorf("%w: factura en estado %s", domain.ErrConflict, inv.SDIStatus)
	}
	o.ProcessAsync(invoiceID)
	return nil
}

// ProcessAsync dispara el procesamiento en una goroutine independiente.
func (o *SDIOrchestrator) ProcessAsync(invoiceID string) {
	go o.Process(invoiceID)
}

// Process núcleo síncrono. Siempre termina actualizando sdi_status
// (SUBMITTED, REJECTED o ERROR_GENERATION) salvo que la factura no exista o ya esté enviada.
func (o *SDIOrchestrator) Process(invoiceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	log := o.log.With().Str("invoice_id", invoiceID).Logger()

	markError := func(inv *entity.Invoice, step, msg string) {
		inv.SDIStatus = entity.SDIStatusErrorGeneration
		inv.SDIErrors = msg
		inv.UpdatedAt = o.clock.Now()
		if err := o.invoiceRepo.Update(inv); err != nil {
			log.Error().Err(err).Str("step", step).Msg("no se pudo persistir ERROR_GENERATION")
		}
		log.Error().Str("step", step).Str("sdi_status", inv.SDIStatus).Msg(msg)
	}

	// 0. Re-fetch de datos frescos
	b, err := o.loader.load("", invoiceID)
	if err != nil {
		// la factura existe pero falta empresa, cliente o líneas
		if inv, gErr := o.invoiceRepo.GetByID(invoiceID); gErr == nil && inv != nil && canProcess(inv.SDIStatus) {
			markError(inv, "fetch", err.Error())
			return
		}
		log.Error().Err(err).Str("step", "fetch").Msg("factura no disponible")
		return
	}
	inv := b.invoice
	if !canProcess(inv.SDIStatus) {
		log.Warn().Str("sdi_status", inv.SDIStatus).Msg("estado inesperado (¿ya enviada?), saltando")
		return
	}

	// 1. Validación y XML
	p := ParamsFromEntities(b.company, b.client, inv, b.lines)
	if errs := domfatturapa.Validate(p); len(errs) > 0 {
		markError(inv, "validate", errs.Error())
		return
	}
	xmlBytes := []byte(o.builder.Build(p))
	filename := infrafatturapa.SDIFilename(p.Company, p.Invoice.Number)

	env := strings.ToLower(strings.TrimSpace(o.cfg.AppEnv))
	if env == "" {
		env = infrafatturapa.AppEnvDev
	}
	switch env {
	case infrafatturapa.AppEnvDev, infrafatturapa.AppEnvTest, infrafatturapa.AppEnvProd:
	default:
		markError(inv, "config", fmt.Sprintf("SDI_ENV desconocido: %q (usar dev|test|prod)", env))
		return
	}

	// 2. Firma XAdES-BES
	status := entity.SDIStatusGenerated
	cert, certErr := o.certificate()
	switch {
	case certErr == nil:
		signed, err := o.signer.Sign(xmlBytes, cert)
		if err != nil {
			markError(inv, "xml-sign", err.Error())
			return
		}
		xmlBytes = signed
		status = entity.SDIStatusSigned
	case errors.Is(certErr, signer.ErrNoCertificate) && env == infrafatturapa.AppEnvDev:
		log.Warn().Str("step", "cert-load").Msg("sin certificado: XML sin firmar (solo dev)")
	case errors.Is(certErr, signer.ErrNoCertificate):
		markError(inv, "cert-load", domain.ErrCertificateNeeded.Error())
		return
	default:
		markError(inv, "cert-load", certErr.Error())
		return
	}

	inv.XMLFatturaPA = string(xmlBytes)
	inv.XMLFilename = filename
	inv.SDIStatus = status
	inv.SDIErrors = ""
	inv.UpdatedAt = o.clock.Now()
	if err := o.invoiceRepo.Update(inv); err != nil {
		log.Error().Err(err).Str("step", "persist").Str("sdi_status", status).Msg("error persistiendo XML")
		return
	}

	// 3. Envío condicional al SdI
	var identificativo, sdiErrors string
	finalStatus := entity.SDIStatusSubmitted

	switch env {
	case infrafatturapa.AppEnvDev:
		log.Info().Str("step", "submit").
			Str("filename", filename).
			Int("bytes", len(xmlBytes)).
			Msg("[DEV] simulando envío al SdI")
		identificativo = "DEV-" + domfatturapa.ProgressivoInvio(inv.Number)

	default:
		if o.submitter == nil {
			markError(inv, "soap", "SDISubmitter no inyectado para entorno "+env)
			return
		}
		result, err := o.submitter.SubmitFile(ctx, xmlBytes, filename, env)
		if err != nil {
			markError(inv, "soap", err.Error())
			return
		}
		identificativo = result.IdentificativoSdI
		sdiErrors = result.Errors
		if !result.Accepted {
			finalStatus = entity.SDIStatusRejected
		}
	}

	// 4. Persistir resultado final
	inv.SDIStatus = finalStatus
	inv.SDIIdentificativo = identificativo
	inv.SDIErrors = sdiErrors
	inv.UpdatedAt = o.clock.Now()
	if err := o.invoiceRepo.Update(inv); err != nil {
		log.Error().Err(err).Str("step", "persist").Str("sdi_status", finalStatus).Msg("error persistiendo estado final")
		return
	}

	log.Info().
		Str("step", "done").
		Str("sdi_status", finalStatus).
		Str("identificativo_sdi", identificativo).
		Str("errors", sdiErrors).
		Msg("factura procesada")
}

func (o *SDIOrchestrator) certificate() (tls.Certificate, error) {
	if strings.TrimSpace(o.cfg.CertPath) == "" {
		return tls.Certificate{}, signer.ErrNoCertificate
	}
	cert, err := o.loadCert(o.cfg.CertPath, o.cfg.CertKeyPath, o.cfg.CertPassword)
	if err != nil {
		return tls.Certificate{}, err
	}
	if len(cert.Certificate) == 0 || cert.PrivateKey == nil {
		return tls.Certificate{}, fmt.Errorf("certificado vacío: verifica SDI_CERT_PATH y SDI_CERT_PASSWORD")
	}
	return cert, nil
}

func canProcess(status string) bool {
	switch status {
	case entity.SDIStatusDraft, entity.SDIStatusGenerated, entity.SDIStatusErrorGeneration, entity.SDIStatusRejected:
		return true
	}
	return false
}
