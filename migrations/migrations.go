// Package migrations embebe los scripts SQL del esquema en el formato de golang-migrate
// (NNN_nombre.up.sql / NNN_nombre.down.sql).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
