package fatturapa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Caffè già pronto", "Caffè già pronto"},
		{"Prezzo €10", "Prezzo EUR10"},
		{"“citazione” l’altro", `"citazione" l'altro`},
		{"uno – due — tre…", "uno - due - tre..."},
		{"a b", "a b"},
		{"Łódź", "?ódz"},
		{"ščř", "scr"},
		{"①", "1"},
		{"日本", "??"},
		{"a\x01b\x1fc", "abc"},
		{"riga1\x0bfine\x00", "riga1fine"},
		{"tab\tLF\nCR\r", "tab\tLF\nCR\r"},
		{"€\x02", "EUR"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, fatturapa.SanitizeText(tc.in), tc.in)
	}
}
