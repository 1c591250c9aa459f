// Package pdf implementa la copia de cortesía (PDF) de una FatturaPA.
// No tiene valor fiscal: el documento válido es el XML entregado al SdI.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ragione sociale + P.IVA │ N° Fattura + Data        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CEDENTE: Sede / PEC / Tel / Email                           │
//	│  CESSIONARIO: Denominazione + P.IVA/CF + Codice Destinatario │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELLA: Qtà | Descrizione | Prezzo | IVA | Importo         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALI: Imponibile / Sconto / IVA / TOTALE DOCUMENTO        │
//	│  PAGAMENTO: Modalità / Scadenza / IBAN                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SdI: file XML + IdentificativoSdI + QR               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Etiquetas de las modalidades de pago (solo en el PDF; el XML siempre usa MP05).
var paymentLabels = map[string]string{
	"cash":          "Contanti",
	"bank_transfer": "Bonifico bancario",
	"card":          "Carta di pagamento",
	"check":         "Assegno",
	"direct_debit":  "Addebito diretto (SEPA)",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	client *entity.Client,
	lines []*entity.InvoiceLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Copia di cortesia "+invoice.Number, true).
		WithAuthor(company.RagioneSociale, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(cedenteRow(company))
	m.AddRows(cessionarioRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(invoice, lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(paymentRow(invoice, company))

	if notes := strings.TrimSpace(invoice.Notes); notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Causale: "+notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(sdiFooterRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: ragione sociale + P.IVA (izq) y número + fecha (der).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.RagioneSociale, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("P.IVA: "+nazione(company.Nazione)+company.PartitaIva, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FATTURA - COPIA DI CORTESIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N. "+invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+invoice.IssuedDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func cedenteRow(company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CEDENTE / PRESTATORE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(sede(company.Indirizzo, company.CAP, company.Citta, company.Provincia), props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
			text.New(fmt.Sprintf("PEC: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.PEC, "-"),
				nonEmpty(company.Telefono, "-"),
				nonEmpty(company.Email, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func cessionarioRow(client *entity.Client) core.Row {
	ids := make([]string, 0, 2)
	if client.VatNumber != "" {
		ids = append(ids, "P.IVA: "+nazione(client.Nazione)+client.VatNumber)
	}
	if client.FiscalCode != "" {
		ids = append(ids, "C.F.: "+client.FiscalCode)
	}
	dest := "Codice destinatario: " + nonEmpty(client.SDI, "0000000")
	if client.SDI == "" && client.PEC != "" {
		dest += "   |   PEC: " + client.PEC
	}
	return row.New(22).Add(
		col.New(12).Add(
			text.New("CESSIONARIO / COMMITTENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(strings.Join(ids, "   |   "), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(dest, props.Text{Size: 8, Top: 17, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtà", 1, align.Center),
		h("Descrizione", 5, align.Left),
		h("Prezzo unitario", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Importo", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableLineRows: una fila por línea; el repositorio ya las devuelve ordenadas por sort_order.
func tableLineRows(invoice *entity.Invoice, lines []*entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatEuro(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				invoice.TaxRate.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatEuro(l.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(invoice *entity.Invoice) core.Row {
	labels := col.New(3)
	values := col.New(3)
	top := 1.0
	add := func(l, v string) {
		labels.Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
		top += 5
	}
	add("Totale merce/servizi:", formatEuro(invoice.Subtotal))
	if invoice.Discount.IsPositive() {
		add("Sconto:", "-"+formatEuro(invoice.Discount))
	}
	add("Imponibile:", formatEuro(invoice.Subtotal.Sub(invoice.Discount)))
	add("IVA "+invoice.TaxRate.String()+"%:", formatEuro(invoice.TaxAmount))
	labels.Add(text.New("TOTALE DOCUMENTO:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top,
	}))
	values.Add(text.New(formatEuro(invoice.Total), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
	}))

	return row.New(top + 8).Add(col.New(6), labels, values)
}

func paymentRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	parts := []string{"Modalità: " + paymentLabel(invoice.PaymentMethod)}
	if invoice.DueDate != nil {
		parts = append(parts, "Scadenza: "+invoice.DueDate.Format("02/01/2006"))
	}
	if company.IBAN != "" {
		parts = append(parts, "IBAN: "+company.IBAN)
	}
	return row.New(12).Add(col.New(12).Add(
		text.New("PAGAMENTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

// sdiFooterRows: datos de la transmisión al SdI, QR y leyenda.
func sdiFooterRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("TRASMISSIONE SdI", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	info := []string{"Stato: " + invoice.SDIStatus}
	if invoice.XMLFilename != "" {
		info = append(info, "File: "+invoice.XMLFilename)
	}
	if invoice.SDIIdentificativo != "" {
		info = append(info, "Identificativo SdI: "+invoice.SDIIdentificativo)
	}

	if invoice.XMLFilename != "" {
		rows = append(rows, row.New(36).Add(
			col.New(3).Add(code.NewQr(qrPayload(invoice), props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New(strings.Join(info, "\n"), props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			),
		))
	} else {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(strings.Join(info, "   |   "), props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	rows = append(rows, row.New(10).Add(col.New(12).Add(
		text.New(
			"Copia di cortesia priva di valore fiscale. "+
				"L'originale della fattura elettronica è disponibile nell'area riservata "+
				"del sito dell'Agenzia delle Entrate.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func qrPayload(invoice *entity.Invoice) string {
	return strings.Join([]string{
		invoice.XMLFilename,
		invoice.Number,
		invoice.IssuedDate.Format("2006-01-02"),
		invoice.Total.StringFixed(2),
		invoice.SDIIdentificativo,
	}, "|")
}

func paymentLabel(method string) string {
	if l, ok := paymentLabels[strings.ToLower(strings.TrimSpace(method))]; ok {
		return l
	}
	return nonEmpty(method, "-")
}

func sede(indirizzo, codPostale, citta, provincia string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{indirizzo, strings.TrimSpace(codPostale + " " + citta)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if provincia != "" {
		parts = append(parts, "("+provincia+")")
	}
	return nonEmpty(strings.Join(parts, " "), "-")
}

func nazione(n string) string {
	if n = strings.ToUpper(strings.TrimSpace(n)); n != "" {
		return n
	}
	return "IT"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatEuro formato italiano con punto de miles y coma decimal.
// Ej: 1234.5 → "1.234,50 €"
func formatEuro(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, decPart := s[:len(s)-3], s[len(s)-2:]
	out := formatThousands(intPart) + "," + decPart + " €"
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
