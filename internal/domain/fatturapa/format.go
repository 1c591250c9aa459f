package fatturapa

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha FatturaPA (xs:date).
const DateLayout = "2006-01-02"

// FormatAmount formatea montos, cantidades y alícuotas: 2 decimales, punto decimal, sin separador de miles.
// Ej: 1000 -> "1000.00", 1220.5 -> "1220.50".
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// ParseAmount normaliza un monto que puede llegar como número o como string numérico.
// Es el único punto donde se resuelve esa unión: de aquí en adelante todo es decimal.Decimal.
// nil y "" equivalen a cero.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, nil
		}
		return *x, nil
	case json.Number:
		return parseNumericString(x.String())
	case string:
		return parseNumericString(x)
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int8:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint8:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint16:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint64:
		return decimal.NewFromUint64(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Zero, fmt.Errorf("fatturapa: importe de tipo %T no soportado", v)
	}
}

func parseNumericString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fatturapa: importe no numérico %q: %w", s, err)
	}
	return d, nil
}

// ProgressivoInvio deja solo caracteres [A-Za-z0-9] del número de factura.
// Ej: "FT-2026/001" -> "FT2026001".
func ProgressivoInvio(number string) string {
	var b strings.Builder
	for _, r := range number {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// xmlEscaper: el orden de los pares no importa con strings.Replacer (un solo recorrido),
// así que "&" nunca se vuelve a escapar dentro de una entidad ya generada.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapa texto libre para el XML (& < > " ').
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Optional devuelve el valor recortado y si está presente. Los campos opcionales se resuelven
// una sola vez con esta función antes de decidir si se emite el elemento.
func Optional(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ParseDate interpreta YYYY-MM-DD o un timestamp RFC 3339 (se toma la fecha).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IssueDate fecha de emisión: la de la factura si es válida, si no la fecha actual del clock en UTC.
func IssueDate(h InvoiceHeader, clock Clock) string {
	if t, ok := ParseDate(h.IssuedDate); ok {
		return t.Format(DateLayout)
	}
	return Today(clock)
}

// Today fecha actual (UTC) del clock en formato YYYY-MM-DD.
func Today(clock Clock) string {
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Now().UTC().Format(DateLayout)
}
