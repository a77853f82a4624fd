package render

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// Renderer parses and executes HTML templates from an embedded filesystem.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all templates from the given filesystem.
// Each page template is combined with the base layout and all partials, with
// funcs available to every template.
func NewRenderer(fsys fs.FS, funcs template.FuncMap) *Renderer {
	r := &Renderer{
		templates: make(map[string]*template.Template),
	}

	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		slog.Error("failed to glob partials", "error", err)
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		slog.Error("failed to glob pages", "error", err)
		return r
	}

	for _, page := range pages {
		name := filepath.Base(page)
		if name == "base.html" {
			continue
		}

		files := []string{"base.html"}
		files = append(files, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			slog.Error("failed to parse template", "page", name, "error", err)
			continue
		}
		r.templates[name] = tmpl
	}

	return r
}

// Has reports whether a page template was parsed.
func (r *Renderer) Has(tmpl string) bool {
	_, ok := r.templates[tmpl]
	return ok
}

// Render executes the named template with the given data.
// For HTMX partial requests (HX-Request header), it executes just the "content"
// block. For full page requests, it executes the "base" template.
// It automatically injects the CSRF token from the cookie into template data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, tmpl string, data map[string]interface{}) {
	blockName := "base"
	if IsHTMX(req) {
		blockName = "content"
	}
	r.RenderBlock(w, req, tmpl, blockName, data)
}

// RenderBlock executes a single named block of a page template, e.g. a fragment
// that HTMX swaps into an already rendered page.
func (r *Renderer) RenderBlock(w http.ResponseWriter, req *http.Request, tmpl, block string, data map[string]interface{}) {
	t, ok := r.templates[tmpl]
	if !ok {
		slog.Error("template not found", "name", tmpl)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if cookie, err := req.Cookie("csrf_token"); err == nil {
		data["CSRFToken"] = cookie.Value
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := t.ExecuteTemplate(w, block, data); err != nil {
		slog.Error("failed to execute template", "name", tmpl, "block", block, "error", err)
	}
}

// IsHTMX reports whether req was issued by htmx.
func IsHTMX(req *http.Request) bool {
	return strings.ToLower(req.Header.Get("HX-Request")) == "true"
}
