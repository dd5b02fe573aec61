// Package db embeds the SQL migrations for the clientauthn schema.
package db

import "embed"

// Migrations holds the files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
