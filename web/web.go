// Package web holds the blog's HTML templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses index.html and load_next.html.
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}
