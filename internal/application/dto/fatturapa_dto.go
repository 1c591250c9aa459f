package dto

import "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"

// FatturaPARequest cuerpo de /api/fatturapa/validate y /generate, y entrada del CLI.
// Los importes llegan como número JSON o como cadena numérica; se convierten con ParseAmount.
type FatturaPARequest struct {
	Company   fatturapa.CompanyInfo `json:"company"`
	Client    fatturapa.ClientInfo  `json:"client"`
	Invoice   InvoiceHeaderRequest  `json:"invoice"`
	LineItems []LineItemRequest     `json:"lineItems"`
}

// InvoiceHeaderRequest cabecera con importes sin tipar.
type InvoiceHeaderRequest struct {
	Number        string `json:"number"`
	IssuedDate    string `json:"issuedDate,omitempty"`
	DueDate       string `json:"dueDate,omitempty"`
	Subtotal      any    `json:"subtotal"`
	TaxRate       any    `json:"taxRate"`
	TaxAmount     any    `json:"taxAmount"`
	Total         any    `json:"total"`
	Discount      any    `json:"discount,omitempty"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// LineItemRequest línea con importes sin tipar.
type LineItemRequest struct {
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unitPrice"`
	Total       any    `json:"total"`
	SortOrder   int    `json:"sortOrder"`
}

// ValidateResponse resultado de la validación. Errors nunca es null en JSON.
type ValidateResponse struct {
	Valid  bool                        `json:"valid"`
	Errors []fatturapa.ValidationError `json:"errors"`
}

// GeneratedFatturaPA XML generado y su nombre de fichero SDI.
type GeneratedFatturaPA struct {
	XML      string `json:"xml"`
	Filename string `json:"filename"`
}
