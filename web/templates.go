// Package web holds the HTML templates served by the blog.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates
var files embed.FS

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
}

// Templates parses every page and partial. Pages are looked up by their
// path below templates/, e.g. "blog/index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(functions).ParseFS(files,
		"templates/*.html",
		"templates/auth/*.html",
		"templates/blog/*.html",
	)
}
