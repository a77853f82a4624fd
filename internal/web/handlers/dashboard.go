package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/znz-systems/linkboard/internal/browser"
	"github.com/znz-systems/linkboard/internal/models"
	"github.com/znz-systems/linkboard/internal/web/render"
)

const recentLimit = 20

// StatsSource supplies the backend's aggregate counters.
type StatsSource interface {
	GetStats(ctx context.Context) (models.Stats, error)
}

// DashboardHandler serves the people and message browser.
type DashboardHandler struct {
	browser *browser.Browser
	stats   StatsSource
	render  *render.Renderer
}

func NewDashboardHandler(b *browser.Browser, stats StatsSource, r *render.Renderer) *DashboardHandler {
	return &DashboardHandler{
		browser: b,
		stats:   stats,
		render:  r,
	}
}

// filters are the dashboard's query parameters, preserved across links.
type filters struct {
	Search  string
	Channel string
	Preview bool
}

func readFilters(q url.Values) filters {
	return filters{
		Search:  q.Get("q"),
		Channel: browser.NormalizeChannel(q.Get("channel")),
		Preview: q.Get("preview") != "off",
	}
}

// Query encodes the filters with channel overridden, for the filter buttons.
func (f filters) Query(channel string) template.URL {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if channel != models.ChannelAll {
		v.Set("channel", channel)
	}
	if !f.Preview {
		v.Set("preview", "off")
	}
	return template.URL(v.Encode())
}

// TogglePreview encodes the filters with the preview setting flipped.
func (f filters) TogglePreview() template.URL {
	f.Preview = !f.Preview
	return f.Query(f.Channel)
}

func (h *DashboardHandler) data(ctx context.Context, f filters) map[string]interface{} {
	snap := h.browser.Snapshot()
	data := map[string]interface{}{
		"Snap":          snap,
		"Filters":       f,
		"Channels":      []string{models.ChannelAll, models.ChannelEmail, models.ChannelLinkedIn},
		"People":        browser.FilterPeople(snap.People, f.Search, f.Channel),
		"Messages":      browser.FilterMessages(snap.Messages, f.Channel),
		"EmailCount":    browser.CountChannel(snap.People, models.ChannelEmail),
		"LinkedInCount": browser.CountChannel(snap.People, models.ChannelLinkedIn),
	}

	if snap.Selected == nil {
		recent, err := h.browser.Recent(ctx, recentLimit)
		if err != nil {
			slog.Warn("failed to load recent messages", "error", err)
		}
		data["Recent"] = browser.FilterMessages(recent, f.Channel)
	}

	if h.stats != nil {
		stats, err := h.stats.GetStats(ctx)
		if err != nil {
			slog.Warn("failed to load stats", "error", err)
		} else {
			data["Stats"] = stats
		}
	}
	return data
}

// ShowDashboard renders the browser. A full page load fetches people and accounts
// again; htmx filter swaps reuse what is already loaded.
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	load := h.browser.Load
	if render.IsHTMX(r) {
		load = h.browser.EnsureLoaded
	}
	if err := load(r.Context()); err != nil {
		slog.Error("failed to load dashboard", "error", err)
	}
	h.render.Render(w, r, "dashboard.html", h.data(r.Context(), readFilters(r.URL.Query())))
}

// HandleRefresh reloads people and accounts from the backend.
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.Load(r.Context()); err != nil {
		slog.Error("failed to refresh dashboard", "error", err)
	}
	if render.IsHTMX(r) {
		h.render.Render(w, r, "dashboard.html", h.data(r.Context(), readFilters(r.URL.Query())))
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ShowPerson selects a person and renders their messages. A response that lost the
// race to a newer selection is not rendered.
func (h *DashboardHandler) ShowPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")

	if err := h.browser.EnsureLoaded(r.Context()); err != nil {
		slog.Error("failed to load dashboard", "error", err)
	}

	err := h.browser.Select(r.Context(), personID)
	if errors.Is(err, browser.ErrStale) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		slog.Error("failed to load person messages", "person_id", personID, "error", err)
	}

	data := h.data(r.Context(), readFilters(r.URL.Query()))
	if render.IsHTMX(r) {
		h.render.RenderBlock(w, r, "dashboard.html", "person_detail", data)
		// Swap the list too so the highlight follows the selection.
		data["PeopleOOB"] = true
		h.render.RenderBlock(w, r, "dashboard.html", "people_list", data)
		return
	}
	h.render.Render(w, r, "dashboard.html", data)
}
