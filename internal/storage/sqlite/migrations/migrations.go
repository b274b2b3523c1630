// Package migrations embeds the SQL migrations for the duel store.
package migrations

import "embed"

// FS holds the embedded duel store migrations.
//
//go:embed *.sql
var FS embed.FS
