// Package migrations embeds the SQL schema files for the SQL-backed key/value
// stores. Each dialect lives in its own directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
