package fatturapa

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
)

// progressivoFileLen longitud del progresivo en el nombre de archivo SDI.
const progressivoFileLen = 5

// ZipEntry archivo a incluir en el ZIP.
type ZipEntry struct {
	Name string
	Data []byte
}

// SDIFilename genera el nombre de archivo exigido por el SdI:
//
//	{IdPaese}{IdCodice}_{progresivo}.xml
//
// El progresivo son los últimos 5 caracteres alfanuméricos del número (rellenados con ceros).
// Ejemplo: IT01234567890_00001.xml
func SDIFilename(company domfatturapa.CompanyInfo, number string) string {
	idCodice := domfatturapa.ProgressivoInvio(company.PartitaIva)
	prog := domfatturapa.ProgressivoInvio(number)
	if len(prog) > progressivoFileLen {
		prog = prog[len(prog)-progressivoFileLen:]
	}
	prog = strings.Repeat("0", progressivoFileLen-len(prog)) + prog
	return strings.ToUpper(nazione(company.Nazione)) + idCodice + "_" + prog + ".xml"
}

// ZipFilename cambia la extensión .xml por .zip.
func ZipFilename(xmlFilename string) string {
	return strings.TrimSuffix(xmlFilename, ".xml") + ".zip"
}

// CompressXMLToZip empaqueta un único XML en un ZIP en memoria.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	return CompressToZip([]ZipEntry{{Name: xmlFilename, Data: xmlBytes}})
}

// CompressToZip empaqueta varios archivos en un ZIP en memoria. Nombres duplicados son error.
func CompressToZip(entries []ZipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			return nil, fmt.Errorf("zip: entrada duplicada %s", e.Name)
		}
		seen[e.Name] = true
		fw, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
