package fatturapa

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Los tipos String de FatturaPA solo admiten Basic Latin + Latin-1 Supplement.
// Sustituciones frecuentes en texto copiado desde procesadores de texto.
var latin1Replacements = map[rune]string{
	'\u20ac': "EUR",
	'\u2018': "'",
	'\u2019': "'",
	'\u201c': `"`,
	'\u201d': `"`,
	'\u2013': "-",
	'\u2014': "-",
	'\u2026': "...",
	nbsp:     " ",
}

const nbsp = '\u00a0'

// SanitizeText reemplaza los caracteres no representables en ISO-8859-1: primero por la tabla
// de sustituciones, luego por su forma base (NFKD sin marcas combinantes), y si no por "?".
// Los controles C0 que XML 1.0 no admite (todos salvo tab, LF y CR) se eliminan.
func SanitizeText(s string) string {
	if isLatin1(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isForbiddenControl(r) {
			continue
		}
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok && r != nbsp {
			b.WriteRune(r)
			continue
		}
		if rep, ok := latin1Replacements[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteString(decomposeLatin1(r))
	}
	return b.String()
}

func decomposeLatin1(r rune) string {
	var out strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if _, ok := charmap.ISO8859_1.EncodeRune(d); ok {
			out.WriteRune(d)
		}
	}
	if out.Len() == 0 {
		return "?"
	}
	return out.String()
}

// isForbiddenControl indica si r queda fuera de la producción Char de XML 1.0 dentro de C0.
func isForbiddenControl(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 || r == nbsp || isForbiddenControl(r) {
			return false
		}
	}
	return true
}
