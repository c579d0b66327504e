package migrations

import "embed"

// FS contains embedded SQLite migrations for vault storage.
//
//go:embed *.sql
var FS embed.FS
