package dto

import "time"

// CreateClientRequest entrada para crear un cliente (Cessionario Committente).
type CreateClientRequest struct {
	CompanyName string `json:"companyName"`
	VatNumber   string `json:"vatNumber"`
	FiscalCode  string `json:"fiscalCode"`
	PEC         string `json:"pec"`
	SDI         string `json:"sdi"`
	Indirizzo   string `json:"indirizzo"`
	CAP         string `json:"cap"`
	Citta       string `json:"citta"`
	Provincia   string `json:"provincia"`
	Nazione     string `json:"nazione"`
	Email       string `json:"email"`
}

// ClientResponse salida de cliente.
type ClientResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	VatNumber   string `json:"vatNumber,omitempty"`
	FiscalCode  string `json:"fiscalCode,omitempty"`
	PEC         string `json:"pec,omitempty"`
	SDI         string `json:"sdi,omitempty"`
	Indirizzo   string `json:"indirizzo,omitempty"`
	CAP         string `json:"cap,omitempty"`
	Citta       string `json:"citta,omitempty"`
	Provincia   string `json:"provincia,omitempty"`
	Nazione     string `json:"nazione"`
	Email       string `json:"email,omitempty"`
}

// CreateInvoiceRequest entrada para crear una factura. Los totales se calculan en el servidor
// a partir de las líneas, el descuento y la alícuota.
type CreateInvoiceRequest struct {
	ClientID      string               `json:"clientId"`
	Number        string               `json:"number"`
	IssuedDate    string               `json:"issuedDate"` // YYYY-MM-DD, vacío = hoy
	DueDate       string               `json:"dueDate"`
	TaxRate       any                  `json:"taxRate"`
	Discount      any                  `json:"discount"`
	Notes         string               `json:"notes"`
	PaymentMethod string               `json:"paymentMethod"`
	Items         []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de la factura a crear.
type InvoiceItemRequest struct {
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unitPrice"`
	SortOrder   int    `json:"sortOrder"`
}

// InvoiceLineDTO línea en la respuesta.
type InvoiceLineDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Total       string `json:"total"`
	SortOrder   int    `json:"sortOrder"`
}

// InvoiceResponse salida de factura (cabecera + líneas ordenadas).
type InvoiceResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"companyId"`
	ClientID          string           `json:"clientId"`
	Number            string           `json:"number"`
	IssuedDate        string           `json:"issuedDate"`
	DueDate           string           `json:"dueDate,omitempty"`
	Subtotal          string           `json:"subtotal"`
	TaxRate           string           `json:"taxRate"`
	TaxAmount         string           `json:"taxAmount"`
	Total             string           `json:"total"`
	Discount          string           `json:"discount"`
	Notes             string           `json:"notes,omitempty"`
	PaymentMethod     string           `json:"paymentMethod,omitempty"`
	SDIStatus         string           `json:"sdiStatus"`
	XMLFilename       string           `json:"xmlFilename,omitempty"`
	SDIIdentificativo string           `json:"sdiIdentificativo,omitempty"`
	Lines             []InvoiceLineDTO `json:"lines"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// InvoiceSDIStatusDTO estado SdI para polling desde el frontend.
type InvoiceSDIStatusDTO struct {
	ID                string    `json:"id"`
	SDIStatus         string    `json:"sdiStatus"`
	XMLFilename       string    `json:"xmlFilename,omitempty"`
	SDIIdentificativo string    `json:"sdiIdentificativo,omitempty"`
	SDIErrors         string    `json:"sdiErrors,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ExportRequest facturas a empaquetar en un ZIP.
type ExportRequest struct {
	InvoiceIDs []string `json:"invoiceIds"`
}
