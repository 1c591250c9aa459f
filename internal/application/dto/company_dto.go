package dto

import "time"

// CompanyRequest datos fiscales del emisor (Cedente Prestatore) de la empresa autenticada.
type CompanyRequest struct {
	RagioneSociale string `json:"ragioneSociale"`
	PartitaIva     string `json:"partitaIva"`
	CodiceFiscale  string `json:"codiceFiscale"`
	Indirizzo      string `json:"indirizzo"`
	CAP            string `json:"cap"`
	Citta          string `json:"citta"`
	Provincia      string `json:"provincia"`
	Nazione        string `json:"nazione"`
	RegimeFiscale  string `json:"regimeFiscale"`
	IBAN           string `json:"iban"`
	PEC            string `json:"pec"`
	Telefono       string `json:"telefono"`
	Email          string `json:"email"`
}

// CompanyResponse salida de la empresa.
type CompanyResponse struct {
	ID             string    `json:"id"`
	RagioneSociale string    `json:"ragioneSociale"`
	PartitaIva     string    `json:"partitaIva"`
	CodiceFiscale  string    `json:"codiceFiscale,omitempty"`
	Indirizzo      string    `json:"indirizzo"`
	CAP            string    `json:"cap"`
	Citta          string    `json:"citta"`
	Provincia      string    `json:"provincia,omitempty"`
	Nazione        string    `json:"nazione"`
	RegimeFiscale  string    `json:"regimeFiscale"`
	IBAN           string    `json:"iban,omitempty"`
	PEC            string    `json:"pec,omitempty"`
	Telefono       string    `json:"telefono,omitempty"`
	Email          string    `json:"email,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
