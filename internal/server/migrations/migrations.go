// Package migrations embeds goose migrations for the file service database.
// The SQL is kept portable between sqlite and postgres.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
