// Package datafiles holds the HTML templates served by the web viewer.
package datafiles

import (
	"embed"
	"html/template"
)

//go:embed index.html frames.html
var htmlTemplatesEmbed embed.FS

// Templates parses the embedded HTML templates. They are looked up by file
// name.
func Templates() (*template.Template, error) {
	return template.ParseFS(htmlTemplatesEmbed, "*.html")
}
