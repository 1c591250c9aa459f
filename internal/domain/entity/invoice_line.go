package entity

import "github.com/shopspring/decimal"

// InvoiceLine línea de detalle de una factura.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	SortOrder   int
}
