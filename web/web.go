// Package web embeds the storefront templates and translation catalogs.
package web

import "embed"

//go:embed templates translations
var Files embed.FS
