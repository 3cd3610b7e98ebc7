// Package views embeds the HTML templates. Every template file wraps its
// content in a {{define}} block named after its path under templates/, and
// pages include the shared "header", "footer" and "paginator" partials.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"
)

//go:embed templates
var files embed.FS

func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":      formatDate,
		"media":     mediaURL,
		"pageQuery": pageQuery,
		"deref":     derefBool,
	}
}

// Load parses every embedded template into one set.
func Load() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(files,
		"templates/*.html",
		"templates/*/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

func mediaURL(name string) string {
	if name == "" {
		return ""
	}
	return "/media/" + strings.TrimPrefix(name, "/")
}

func pageQuery(n int) string {
	return "?" + url.Values{"page": {strconv.Itoa(n)}}.Encode()
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
