// Package scalar serves the Scalar API reference UI for the OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed index.html
var staticFS embed.FS

var page = template.Must(template.ParseFS(staticFS, "index.html"))

// NewHandler renders the reference page for the document at specURL.
func NewHandler(title, specURL string) (http.Handler, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	}); err != nil {
		return nil, err
	}
	body := buf.Bytes()

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})
	return r, nil
}
