package fatturapa

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/beevik/etree"

	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	pkgfatturapa "github.com/jhoicas/fatturapa-api/pkg/fatturapa"
)

// maxCausaleLen longitud máxima de cada elemento Causale (String200LatinType).
const maxCausaleLen = 200

// XMLBuilderService construye el XML FatturaPA FPR12 (sin firma XAdES).
// No valida: quien llama debe ejecutar Validate antes.
type XMLBuilderService struct {
	clock domfatturapa.Clock
}

// NewXMLBuilderService crea el servicio. Con clock nil se usa el reloj del sistema.
func NewXMLBuilderService(clock domfatturapa.Clock) *XMLBuilderService {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &XMLBuilderService{clock: clock}
}

// GenerateFatturaPA genera el documento con el reloj del sistema.
func GenerateFatturaPA(p domfatturapa.Params) string {
	return NewXMLBuilderService(nil).Build(p)
}

// Build genera el documento completo. Nunca falla.
func (s *XMLBuilderService) Build(p domfatturapa.Params) string {
	doc := newDocument()

	root := doc.CreateElement("p:FatturaElettronica")
	root.CreateAttr("versione", pkgfatturapa.Versione)
	root.CreateAttr("xmlns:p", pkgfatturapa.NamespaceFatture)
	root.CreateAttr("xmlns:ds", pkgfatturapa.NamespaceDS)
	root.CreateAttr("xmlns:xsi", pkgfatturapa.NamespaceXSI)
	root.CreateAttr("xsi:schemaLocation", pkgfatturapa.SchemaLocation)

	header := root.CreateElement("FatturaElettronicaHeader")
	s.writeDatiTrasmissione(header, p)
	s.writeCedentePrestatore(header, p.Company)
	s.writeCessionarioCommittente(header, p.Client)

	body := root.CreateElement("FatturaElettronicaBody")
	s.writeDatiGenerali(body, p.Invoice)
	beni := body.CreateElement("DatiBeniServizi")
	s.writeDettaglioLinee(beni, p.Invoice, p.LineItems)
	s.writeDatiRiepilogo(beni, p.Invoice)
	s.writeDatiPagamento(body, p.Company, p.Invoice)

	return serialize(doc)
}

func (s *XMLBuilderService) writeDatiTrasmissione(parent *etree.Element, p domfatturapa.Params) {
	dt := parent.CreateElement("DatiTrasmissione")
	id := dt.CreateElement("IdTrasmittente")
	leaf(id, "IdPaese", nazione(p.Company.Nazione))
	leaf(id, "IdCodice", p.Company.PartitaIva)
	leaf(dt, "ProgressivoInvio", domfatturapa.ProgressivoInvio(p.Invoice.Number))
	leaf(dt, "FormatoTrasmissione", pkgfatturapa.FormatoTrasmissioneFPR12)

	if sdi, ok := domfatturapa.Optional(p.Client.SDI); ok {
		leaf(dt, "CodiceDestinatario", sdi)
		return
	}
	leaf(dt, "CodiceDestinatario", pkgfatturapa.CodiceDestinatarioDefault)
	// PEC solo cuando no hay código destinatario
	optLeaf(dt, "PECDestinatario", p.Client.PEC)
}

func (s *XMLBuilderService) writeCedentePrestatore(parent *etree.Element, c domfatturapa.CompanyInfo) {
	cp := parent.CreateElement("CedentePrestatore")
	da := cp.CreateElement("DatiAnagrafici")
	idIVA := da.CreateElement("IdFiscaleIVA")
	leaf(idIVA, "IdPaese", nazione(c.Nazione))
	leaf(idIVA, "IdCodice", c.PartitaIva)
	optLeaf(da, "CodiceFiscale", c.CodiceFiscale)
	leaf(da.CreateElement("Anagrafica"), "Denominazione", c.RagioneSociale)
	regime, ok := domfatturapa.Optional(c.RegimeFiscale)
	if !ok {
		regime = pkgfatturapa.RegimeFiscaleOrdinario
	}
	leaf(da, "RegimeFiscale", regime)

	writeSede(cp, c.Indirizzo, c.CAP, c.Citta, c.Provincia, c.Nazione)

	tel, hasTel := domfatturapa.Optional(c.Telefono)
	email, hasEmail := domfatturapa.Optional(c.Email)
	if hasTel || hasEmail {
		contatti := cp.CreateElement("Contatti")
		if hasTel {
			leaf(contatti, "Telefono", tel)
		}
		if hasEmail {
			leaf(contatti, "Email", email)
		}
	}
}

func (s *XMLBuilderService) writeCessionarioCommittente(parent *etree.Element, c domfatturapa.ClientInfo) {
	cc := parent.CreateElement("CessionarioCommittente")
	da := cc.CreateElement("DatiAnagrafici")
	if vat, ok := domfatturapa.Optional(c.VatNumber); ok {
		idIVA := da.CreateElement("IdFiscaleIVA")
		leaf(idIVA, "IdPaese", nazione(c.Nazione))
		leaf(idIVA, "IdCodice", vat)
	}
	optLeaf(da, "CodiceFiscale", c.FiscalCode)
	leaf(da.CreateElement("Anagrafica"), "Denominazione", c.CompanyName)

	writeSede(cc, c.Indirizzo, c.CAP, c.Citta, c.Provincia, c.Nazione)
}

// writeSede emite solo los campos de dirección presentes; Nazione siempre (por defecto IT).
func writeSede(parent *etree.Element, indirizzo, codPostale, comune, provincia, paese string) {
	sede := parent.CreateElement("Sede")
	optLeaf(sede, "Indirizzo", indirizzo)
	optLeaf(sede, "CAP", codPostale)
	optLeaf(sede, "Comune", comune)
	optLeaf(sede, "Provincia", provincia)
	leaf(sede, "Nazione", nazione(paese))
}

func (s *XMLBuilderService) writeDatiGenerali(parent *etree.Element, h domfatturapa.InvoiceHeader) {
	doc := parent.CreateElement("DatiGenerali").CreateElement("DatiGeneraliDocumento")
	leaf(doc, "TipoDocumento", pkgfatturapa.TipoDocumentoFattura)
	leaf(doc, "Divisa", pkgfatturapa.DivisaEUR)
	leaf(doc, "Data", domfatturapa.IssueDate(h, s.clock))
	leaf(doc, "Numero", h.Number)
	if h.Discount.IsPositive() {
		sm := doc.CreateElement("ScontoMaggiorazione")
		leaf(sm, "Tipo", pkgfatturapa.ScontoMaggiorazioneSconto)
		leaf(sm, "Importo", domfatturapa.FormatAmount(h.Discount))
	}
	leaf(doc, "ImportoTotaleDocumento", domfatturapa.FormatAmount(h.Total))
	// se sanea antes de dividir: las sustituciones (€ -> EUR) alargan el texto
	if notes, ok := domfatturapa.Optional(domfatturapa.SanitizeText(h.Notes)); ok {
		for _, chunk := range splitRunes(notes, maxCausaleLen) {
			leaf(doc, "Causale", chunk)
		}
	}
}

func (s *XMLBuilderService) writeDettaglioLinee(parent *etree.Element, h domfatturapa.InvoiceHeader, items []domfatturapa.LineItem) {
	aliquota := domfatturapa.FormatAmount(h.TaxRate)
	for i, item := range sortedLines(items) {
		dl := parent.CreateElement("DettaglioLinee")
		leaf(dl, "NumeroLinea", strconv.Itoa(i+1))
		leaf(dl, "Descrizione", item.Description)
		leaf(dl, "Quantita", domfatturapa.FormatAmount(item.Quantity))
		leaf(dl, "PrezzoUnitario", domfatturapa.FormatAmount(item.UnitPrice))
		leaf(dl, "PrezzoTotale", domfatturapa.FormatAmount(item.Total))
		leaf(dl, "AliquotaIVA", aliquota)
	}
}

func (s *XMLBuilderService) writeDatiRiepilogo(parent *etree.Element, h domfatturapa.InvoiceHeader) {
	dr := parent.CreateElement("DatiRiepilogo")
	leaf(dr, "AliquotaIVA", domfatturapa.FormatAmount(h.TaxRate))
	leaf(dr, "ImponibileImporto", domfatturapa.FormatAmount(h.Subtotal.Sub(h.Discount)))
	leaf(dr, "Imposta", domfatturapa.FormatAmount(h.TaxAmount))
	leaf(dr, "EsigibilitaIVA", pkgfatturapa.EsigibilitaImmediata)
}

func (s *XMLBuilderService) writeDatiPagamento(parent *etree.Element, c domfatturapa.CompanyInfo, h domfatturapa.InvoiceHeader) {
	dp := parent.CreateElement("DatiPagamento")
	leaf(dp, "CondizioniPagamento", pkgfatturapa.CondizioniPagamentoCompleto)
	det := dp.CreateElement("DettaglioPagamento")
	leaf(det, "ModalitaPagamento", pkgfatturapa.ModalitaPagamentoBonifico)
	if due, ok := domfatturapa.ParseDate(h.DueDate); ok {
		leaf(det, "DataScadenzaPagamento", due.Format(domfatturapa.DateLayout))
	}
	leaf(det, "ImportoPagamento", domfatturapa.FormatAmount(h.Total))
	optLeaf(det, "IBAN", c.IBAN)
}

// sortedLines copia y ordena por SortOrder; empates conservan el orden de entrada.
func sortedLines(items []domfatturapa.LineItem) []domfatturapa.LineItem {
	out := make([]domfatturapa.LineItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func nazione(s string) string {
	if v, ok := domfatturapa.Optional(s); ok {
		return v
	}
	return pkgfatturapa.NazioneDefault
}

func splitRunes(s string, n int) []string {
	if utf8.RuneCountInString(s) <= n {
		return []string{s}
	}
	var chunks []string
	runes := []rune(s)
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
