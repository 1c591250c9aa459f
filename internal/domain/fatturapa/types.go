// Package fatturapa contiene el núcleo de la factura electrónica italiana (FatturaPA, formato FPR12):
// datos de entrada, validación de campos obligatorios y utilidades de formato.
// No hace I/O ni guarda estado: todas las funciones son puras.
package fatturapa

import "github.com/shopspring/decimal"

// CompanyInfo datos del emisor (Cedente Prestatore).
type CompanyInfo struct {
	RagioneSociale string `json:"ragioneSociale"`
	PartitaIva     string `json:"partitaIva"`
	CodiceFiscale  string `json:"codiceFiscale,omitempty"` // vacío = no se emite
	Indirizzo      string `json:"indirizzo"`
	CAP            string `json:"cap"`
	Citta          string `json:"citta"`
	Provincia      string `json:"provincia"`
	Nazione        string `json:"nazione"` // ISO 3166-1 alpha-2, IT por defecto
	RegimeFiscale  string `json:"regimeFiscale"`
	IBAN           string `json:"iban,omitempty"`
	PEC            string `json:"pec,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Email          string `json:"email,omitempty"`
}

// ClientInfo datos del destinatario (Cessionario Committente).
// Debe tener al menos VatNumber o FiscalCode.
type ClientInfo struct {
	CompanyName string `json:"companyName"`
	VatNumber   string `json:"vatNumber,omitempty"`
	FiscalCode  string `json:"fiscalCode,omitempty"`
	PEC         string `json:"pec,omitempty"`
	SDI         string `json:"sdi,omitempty"` // Codice Destinatario (7 caracteres)

	Indirizzo string `json:"indirizzo,omitempty"`
	CAP       string `json:"cap,omitempty"`
	Citta     string `json:"citta,omitempty"`
	Provincia string `json:"provincia,omitempty"`
	Nazione   string `json:"nazione,omitempty"`
}

// InvoiceHeader cabecera de la factura. Las fechas van en formato YYYY-MM-DD.
type InvoiceHeader struct {
	Number        string          `json:"number"`
	IssuedDate    string          `json:"issuedDate,omitempty"` // vacío = fecha actual (UTC)
	DueDate       string          `json:"dueDate,omitempty"`    // vacío = sin DataScadenzaPagamento
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// LineItem línea de detalle. El orden de salida lo define SortOrder, no la posición en el slice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
	SortOrder   int             `json:"sortOrder"`
}

// Params agrupa todo lo necesario para validar y generar una FatturaPA.
type Params struct {
	Company   CompanyInfo   `json:"company"`
	Client    ClientInfo    `json:"client"`
	Invoice   InvoiceHeader `json:"invoice"`
	LineItems []LineItem    `json:"lineItems"`
}
