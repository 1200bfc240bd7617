// Package webui provides the embedded preview page.
package webui

import (
	"embed"
)

//go:embed static/*
var staticFS embed.FS

// Index returns the preview page.
func Index() []byte {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// This should never happen because we control the embed path
		panic(err)
	}
	return b
}
