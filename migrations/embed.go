// Package migrations embeds the schema migrations, one directory per database driver.
package migrations

import "embed"

// FS holds the postgres, mysql and sqlite3 migration directories.
//
//go:embed postgres mysql sqlite3
var FS embed.FS
