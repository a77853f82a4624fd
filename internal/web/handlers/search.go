package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/linkedin"
	"github.com/znz-systems/linkboard/internal/models"
	"github.com/znz-systems/linkboard/internal/web/render"
)

// Searcher runs LinkedIn people searches on the backend.
type Searcher interface {
	PeopleSearch(ctx context.Context, req models.PeopleSearchRequest) (*models.PeopleSearchResponse, error)
}

// SearchHandler serves the LinkedIn people search form.
type SearchHandler struct {
	searcher Searcher
	render   *render.Renderer
}

func NewSearchHandler(s Searcher, r *render.Renderer) *SearchHandler {
	return &SearchHandler{searcher: s, render: r}
}

func searchData(form linkedin.Form) map[string]interface{} {
	return map[string]interface{}{
		"Form":      form,
		"Languages": linkedin.Languages,
		"Distances": linkedin.Distances,
		"OpenTo":    linkedin.OpenTo,
	}
}

// ShowSearch renders an empty search form.
func (h *SearchHandler) ShowSearch(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "search.html", searchData(linkedin.NewForm()))
}

// HandleSearch validates the form, runs the search and renders the results. htmx
// requests get only the results panel.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := linkedin.ParseForm(r.PostForm)
	data := searchData(form)
	data["Searched"] = true

	if err := form.Validate(); err != nil {
		data["Error"] = err.Error()
		h.renderResults(w, r, data)
		return
	}

	resp, err := h.searcher.PeopleSearch(r.Context(), form.Request())
	if err != nil {
		slog.Error("people search failed", "error", err)
		data["Error"] = backend.Message(err, "An error occurred during search")
		h.renderResults(w, r, data)
		return
	}

	data["Results"] = resp.Results
	slog.Info("people search completed", "results", len(resp.Results))
	h.renderResults(w, r, data)
}

func (h *SearchHandler) renderResults(w http.ResponseWriter, r *http.Request, data map[string]interface{}) {
	if render.IsHTMX(r) {
		h.render.RenderBlock(w, r, "search.html", "search_results", data)
		return
	}
	h.render.Render(w, r, "search.html", data)
}
