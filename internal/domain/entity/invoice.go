package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura frente al SdI (Sistema di Interscambio).
const (
	SDIStatusDraft           = "DRAFT"            // Guardada, sin XML
	SDIStatusGenerated       = "GENERATED"        // XML FatturaPA generado y guardado
	SDIStatusSigned          = "SIGNED"           // XML firmado, pendiente de envío
	SDIStatusSubmitted       = "SUBMITTED"        // Recibida por el SdI (o simulada en dev)
	SDIStatusRejected        = "REJECTED"         // Rechazada por el SdI
	SDIStatusErrorGeneration = "ERROR_GENERATION" // Falló validación, generación o firma
)

// Invoice cabecera de una factura.
type Invoice struct {
	ID                string
	CompanyID         string
	ClientID          string
	Number            string
	IssuedDate        time.Time
	DueDate           *time.Time // nil = sin vencimiento
	Subtotal          decimal.Decimal
	TaxRate           decimal.Decimal // alícuota IVA en porcentaje (22 = 22%)
	TaxAmount         decimal.Decimal
	Total             decimal.Decimal
	Discount          decimal.Decimal
	Notes             string
	PaymentMethod     string // cash, bank_transfer, card... (solo se muestra en el PDF)
	SDIStatus         string
	XMLFatturaPA      string // XML generado (firmado si ya se envió)
	XMLFilename       string // nombre SDI: IT01234567890_00001.xml
	SDIIdentificativo string // IdentificativoSdI devuelto tras el envío
	SDIErrors         string // errores de rechazo o de generación
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasXML indica si la factura ya tiene XML generado.
func (i *Invoice) HasXML() bool {
	return i.XMLFatturaPA != ""
}
