package fatturapa

import (
	"github.com/beevik/etree"

	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
)

// indentSpaces sangría del documento generado.
const indentSpaces = 2

// newDocument crea el documento con la declaración XML UTF-8.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

// leaf añade <tag>valor</tag> bajo parent. El valor se sanea a Latin-1; etree lo escapa al serializar.
func leaf(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(domfatturapa.SanitizeText(value))
	return el
}

// optLeaf añade el elemento solo si el valor está presente (nunca deja etiquetas vacías).
func optLeaf(parent *etree.Element, tag, value string) {
	if v, ok := domfatturapa.Optional(value); ok {
		leaf(parent, tag, v)
	}
}

// serialize indenta y escribe el documento. etree emite &quot; y &apos; en texto y atributos.
func serialize(doc *etree.Document) string {
	doc.Indent(indentSpaces)
	// WriteToString escribe sobre un bytes.Buffer: no falla
	out, _ := doc.WriteToString()
	return out
}
