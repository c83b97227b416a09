// Package migrations embeds the schema so cmd/migrate ships as one binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
