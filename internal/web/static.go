package web

import "embed"

// staticFiles holds the stylesheet, the refresh script and the logo
//
//go:embed static
var staticFiles embed.FS
