// Package migrations embeds the SQL schema applied by sql-migrate.
package migrations

import "embed"

// FS holds one directory of migrations per database dialect
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
