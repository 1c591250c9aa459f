package entity

import "time"

// Client representa un cliente de la empresa (Cessionario Committente).
// Debe tener al menos VatNumber o FiscalCode.
type Client struct {
	ID          string
	CompanyID   string
	CompanyName string
	VatNumber   string // Partita IVA
	FiscalCode  string // Codice Fiscale
	PEC         string
	SDI         string // Codice Destinatario (7 caracteres)
	Indirizzo   string
	CAP         string
	Citta       string
	Provincia   string
	Nazione     string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
