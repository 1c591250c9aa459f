// Package fatturapa contiene los códigos fijos y catálogos de la especificación técnica
// FatturaPA 1.2 (Agenzia delle Entrate / Sistema di Interscambio).
package fatturapa

// =============================================================================
// Formato y namespaces
// =============================================================================

const (
	FormatoTrasmissioneFPR12 = "FPR12" // Fattura verso privati
	Versione                 = "FPR12"

	NamespaceFatture = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"
	NamespaceDS      = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation   = NamespaceFatture + " " +
		"http://www.fatturapa.gov.it/export/fatturazione/sdi/fatturapa/v1.2/Schema_del_file_xml_FatturaPA_versione_1.2.xsd"
)

// CodiceDestinatarioDefault se usa cuando el cliente no tiene código SDI (entrega por PEC o cassetto fiscale).
const CodiceDestinatarioDefault = "0000000"

// NazioneDefault país por defecto de emisor y destinatario.
const NazioneDefault = "IT"

// =============================================================================
// TipoDocumento (2.1.1.1)
// =============================================================================

const (
	TipoDocumentoFattura     = "TD01" // Fattura
	TipoDocumentoAcconto     = "TD02" // Acconto/anticipo su fattura
	TipoDocumentoNotaCredito = "TD04" // Nota di credito
	TipoDocumentoNotaDebito  = "TD05" // Nota di debito
)

// DivisaEUR divisa del documento.
const DivisaEUR = "EUR"

// =============================================================================
// ScontoMaggiorazione (2.1.1.8)
// =============================================================================

const (
	ScontoMaggiorazioneSconto        = "SC" // Sconto
	ScontoMaggiorazioneMaggiorazione = "MG" // Maggiorazione
)

// =============================================================================
// EsigibilitaIVA (2.2.2.7)
// =============================================================================

const (
	EsigibilitaImmediata = "I" // IVA ad esigibilità immediata
	EsigibilitaDifferita = "D" // IVA ad esigibilità differita
	EsigibilitaSplit     = "S" // Scissione dei pagamenti
)

// =============================================================================
// CondizioniPagamento (2.4.1) y ModalitaPagamento (2.4.2.2)
// =============================================================================

const (
	CondizioniPagamentoRate     = "TP01" // Pagamento a rate
	CondizioniPagamentoCompleto = "TP02" // Pagamento completo
	CondizioniPagamentoAnticipo = "TP03" // Anticipo
)

const (
	ModalitaPagamentoContanti = "MP01" // Contanti
	ModalitaPagamentoAssegno  = "MP02" // Assegno
	ModalitaPagamentoBonifico = "MP05" // Bonifico
	ModalitaPagamentoCarta    = "MP08" // Carta di pagamento
	ModalitaPagamentoRID      = "MP09" // RID
	ModalitaPagamentoRIBA     = "MP12" // RIBA
	ModalitaPagamentoPagoPA   = "MP23" // PagoPA
)

// PaymentMethodLabels descripción legible de los métodos de pago de la aplicación (copia de cortesía).
var PaymentMethodLabels = map[string]string{
	"cash":          "Contanti",
	"check":         "Assegno",
	"bank_transfer": "Bonifico",
	"card":          "Carta di pagamento",
	"direct_debit":  "RID",
	"riba":          "RIBA",
	"pagopa":        "PagoPA",
}

// =============================================================================
// RegimeFiscale (1.2.1.8) - los más usados
// =============================================================================

const (
	RegimeFiscaleOrdinario   = "RF01" // Ordinario
	RegimeFiscaleMinimi      = "RF02" // Contribuenti minimi
	RegimeFiscaleForfettario = "RF19" // Regime forfettario
)

