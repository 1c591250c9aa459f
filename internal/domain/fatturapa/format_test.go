package fatturapa_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
)

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"1000":    "1000.00",
		"1220.5":  "1220.50",
		"0":       "0.00",
		"12.345":  "12.35",
		"-3.1":    "-3.10",
		"1234567": "1234567.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, fatturapa.FormatAmount(decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "0.00", fatturapa.FormatAmount(decimal.Decimal{}))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{"", "0"},
		{" 12.50 ", "12.5"},
		{json.Number("1220.40"), "1220.4"},
		{1000, "1000"},
		{int64(7), "7"},
		{int8(-3), "-3"},
		{int16(300), "300"},
		{int32(-40000), "-40000"},
		{uint(5), "5"},
		{uint8(255), "255"},
		{uint16(65535), "65535"},
		{uint32(4000000000), "4000000000"},
		{uint64(18446744073709551615), "18446744073709551615"},
		{float32(1.5), "1.5"},
		{22.5, "22.5"},
		{decimal.NewFromInt(3), "3"},
	}
	for _, tc := range cases {
		got, err := fatturapa.ParseAmount(tc.in)
		require.NoError(t, err, "%v", tc.in)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%v -> %s", tc.in, got)
	}

	_, err := fatturapa.ParseAmount("dodici")
	assert.Error(t, err)
	_, err = fatturapa.ParseAmount(true)
	assert.Error(t, err)
}

func TestProgressivoInvio(t *testing.T) {
	assert.Equal(t, "FT2026001", fatturapa.ProgressivoInvio("FT-2026/001"))
	assert.Equal(t, "A1", fatturapa.ProgressivoInvio(" A_1 "))
	assert.Equal(t, "", fatturapa.ProgressivoInvio("---"))
	assert.Equal(t, "N12", fatturapa.ProgressivoInvio("Nº12"))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", fatturapa.EscapeXML(`a & b <c> "d" 'e'`))
	assert.Equal(t, "&amp;amp;", fatturapa.EscapeXML("&amp;"))
	assert.Equal(t, "testo", fatturapa.EscapeXML("testo"))
}

func TestParseDate(t *testing.T) {
	got, ok := fatturapa.ParseDate("2026-02-10")
	require.True(t, ok)
	assert.Equal(t, "2026-02-10", got.Format(fatturapa.DateLayout))

	got, ok = fatturapa.ParseDate("2026-02-10T23:00:00+02:00")
	require.True(t, ok)
	assert.Equal(t, "2026-02-10", got.Format(fatturapa.DateLayout))

	_, ok = fatturapa.ParseDate("2026-02-10 08:00:00")
	assert.True(t, ok)

	for _, bad := range []string{"", "   ", "10/02/2026", "2026-13-01"} {
		_, ok := fatturapa.ParseDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestIssueDate(t *testing.T) {
	clock := fatturapa.FixedClock(time.Date(2026, 1, 1, 0, 15, 0, 0, time.FixedZone("CET", 3600)))

	assert.Equal(t, "2026-02-10", fatturapa.IssueDate(fatturapa.InvoiceHeader{IssuedDate: "2026-02-10"}, clock))
	assert.Equal(t, "2025-12-31", fatturapa.IssueDate(fatturapa.InvoiceHeader{}, clock), "fecha actual en UTC")
	assert.Equal(t, "2025-12-31", fatturapa.IssueDate(fatturapa.InvoiceHeader{IssuedDate: "ieri"}, clock))
}

func TestToday_ClockNilUsaSistema(t *testing.T) {
	assert.Equal(t, time.Now().UTC().Format(fatturapa.DateLayout), fatturapa.Today(nil))
}

func TestOptional(t *testing.T) {
	v, ok := fatturapa.Optional("  x ")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = fatturapa.Optional(" \t ")
	assert.False(t, ok)
}
