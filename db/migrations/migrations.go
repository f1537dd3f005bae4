// Package migrations embeds the ordered schema files applied at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
