package migrations_test

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/migrations"
)

func readAll(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestFS_FormatoGolangMigrate(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	assert.Equal(t, "fatturapa", ident)
	upSQL := readAll(t, up)
	for _, table := range []string{"companies", "clients", "invoices", "invoice_lines"} {
		assert.Contains(t, upSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	downSQL := readAll(t, down)
	// las líneas se eliminan antes que las facturas que referencian
	assert.Less(t, strings.Index(downSQL, "invoice_lines"), strings.Index(downSQL, "invoices;"))
	assert.Contains(t, downSQL, "DROP TABLE IF EXISTS companies;")
}
