// Package migrations embeds the SQL schema so the binaries can migrate the
// database without a checkout of the repository next to them.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
