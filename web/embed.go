package web

import "embed"

// StaticFiles embeds the static frontend build output.
//
//go:embed all:build
var StaticFiles embed.FS
