package entity

import "time"

// Estados de la empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// Company representa una organización/tenant del sistema (emisor de las facturas, Cedente Prestatore).
type Company struct {
	ID             string
	RagioneSociale string
	PartitaIva     string
	CodiceFiscale  string
	Indirizzo      string
	CAP            string
	Citta          string
	Provincia      string
	Nazione        string // ISO 3166-1 alpha-2
	RegimeFiscale  string // RF01..RF19
	IBAN           string
	PEC            string
	Telefono       string
	Email          string
	Status         string // active, suspended
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
