// Package migrations embeds the Postgres schema for the lead store.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
