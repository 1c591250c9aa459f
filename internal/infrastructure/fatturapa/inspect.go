package fatturapa

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Summary datos principales de un documento FatturaPA.
type Summary struct {
	Versione                 string `json:"versione"`
	ProgressivoInvio         string `json:"progressivoInvio"`
	CodiceDestinatario       string `json:"codiceDestinatario"`
	PECDestinatario          string `json:"pecDestinatario,omitempty"`
	CedenteIdCodice          string `json:"cedenteIdCodice"`
	CedenteDenominazione     string `json:"cedenteDenominazione"`
	CessionarioDenominazione string `json:"cessionarioDenominazione"`
	TipoDocumento            string `json:"tipoDocumento"`
	Numero                   string `json:"numero"`
	Data                     string `json:"data"`
	ImportoTotale            string `json:"importoTotale"`
	Lines                    int    `json:"lines"`
	Signed                   bool   `json:"signed"`
}

// Inspect lee un XML FatturaPA (generado o recibido) y extrae el resumen.
// Los elementos se buscan por nombre local, sin depender del prefijo de la raíz.
func Inspect(xmlBytes []byte) (*Summary, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("fatturapa: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "FatturaElettronica" {
		return nil, fmt.Errorf("fatturapa: la raíz no es FatturaElettronica")
	}

	header := root.FindElement("./FatturaElettronicaHeader")
	body := root.FindElement("./FatturaElettronicaBody")
	if header == nil || body == nil {
		return nil, fmt.Errorf("fatturapa: faltan FatturaElettronicaHeader o FatturaElettronicaBody")
	}

	s := &Summary{
		Versione:                 root.SelectAttrValue("versione", ""),
		ProgressivoInvio:         text(header, "./DatiTrasmissione/ProgressivoInvio"),
		CodiceDestinatario:       text(header, "./DatiTrasmissione/CodiceDestinatario"),
		PECDestinatario:          text(header, "./DatiTrasmissione/PECDestinatario"),
		CedenteIdCodice:          text(header, "./CedentePrestatore/DatiAnagrafici/IdFiscaleIVA/IdCodice"),
		CedenteDenominazione:     text(header, "./CedentePrestatore/DatiAnagrafici/Anagrafica/Denominazione"),
		CessionarioDenominazione: text(header, "./CessionarioCommittente/DatiAnagrafici/Anagrafica/Denominazione"),
		TipoDocumento:            text(body, "./DatiGenerali/DatiGeneraliDocumento/TipoDocumento"),
		Numero:                   text(body, "./DatiGenerali/DatiGeneraliDocumento/Numero"),
		Data:                     text(body, "./DatiGenerali/DatiGeneraliDocumento/Data"),
		ImportoTotale:            text(body, "./DatiGenerali/DatiGeneraliDocumento/ImportoTotaleDocumento"),
		Lines:                    len(body.FindElements("./DatiBeniServizi/DettaglioLinee")),
	}
	for _, child := range root.ChildElements() {
		if child.Tag == "Signature" {
			s.Signed = true
		}
	}
	return s, nil
}

func text(el *etree.Element, path string) string {
	if found := el.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}
