package fatturapa

import (
	"errors"
	"strings"
)

// ErrInvalidInvoice agrupa los errores de validación de una FatturaPA.
var ErrInvalidInvoice = errors.New("fattura non valida per SDI")

// Campos y mensajes de validación (el frontend los muestra tal cual).
const (
	FieldCompanyPartitaIva     = "company.partitaIva"
	FieldCompanyRagioneSociale = "company.ragioneSociale"
	FieldClientVatNumber       = "client.vatNumber"
	FieldLineItems             = "lineItems"

	MsgPartitaIvaRequired     = "P.IVA cedente obbligatoria"
	MsgRagioneSocialeRequired = "Ragione sociale cedente obbligatoria"
	MsgClientTaxIDRequired    = "P.IVA o Codice Fiscale cessionario obbligatorio"
	MsgLineItemsRequired      = "Almeno una voce fattura obbligatoria"
)

// ValidationError error de un campo concreto.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lista de errores; implementa error y envuelve ErrInvalidInvoice.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return ErrInvalidInvoice.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInvoice).
func (v ValidationErrors) Unwrap() error { return ErrInvalidInvoice }

// Validate revisa los campos mínimos exigidos por SDI. Evalúa todas las reglas en cada llamada
// (no se detiene en la primera) y devuelve una lista vacía si la factura es válida.
// Direcciones, fechas y rangos numéricos no se validan aquí.
func Validate(p Params) ValidationErrors {
	errs := ValidationErrors{}

	if isBlank(p.Company.PartitaIva) {
		errs = append(errs, ValidationError{Field: FieldCompanyPartitaIva, Message: MsgPartitaIvaRequired})
	}
	if isBlank(p.Company.RagioneSociale) {
		errs = append(errs, ValidationError{Field: FieldCompanyRagioneSociale, Message: MsgRagioneSocialeRequired})
	}
	if isBlank(p.Client.VatNumber) && isBlank(p.Client.FiscalCode) {
		errs = append(errs, ValidationError{Field: FieldClientVatNumber, Message: MsgClientTaxIDRequired})
	}
	if len(p.LineItems) == 0 {
		errs = append(errs, ValidationError{Field: FieldLineItems, Message: MsgLineItemsRequired})
	}
	return errs
}

// Err devuelve nil si no hay errores; si no, la propia lista como error.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
