package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/znz-systems/linkboard/internal/connection"
	"github.com/znz-systems/linkboard/internal/models"
	"github.com/znz-systems/linkboard/internal/web/render"
)

// ConnectionHandler serves the account connection screen and its actions.
type ConnectionHandler struct {
	controller   *connection.Controller
	view         *connection.View
	render       *render.Renderer
	pollInterval time.Duration
	flash        flashes
}

func NewConnectionHandler(c *connection.Controller, v *connection.View, r *render.Renderer, pollInterval time.Duration, secureCookies bool) *ConnectionHandler {
	return &ConnectionHandler{
		controller:   c,
		view:         v,
		render:       r,
		pollInterval: pollInterval,
		flash:        flashes{secure: secureCookies},
	}
}

func (h *ConnectionHandler) data() map[string]interface{} {
	secs := int(h.pollInterval / time.Second)
	if secs < 1 {
		secs = 1
	}
	return map[string]interface{}{
		"View":        h.view.Snapshot(),
		"Providers":   models.Providers,
		"PollSeconds": secs,
	}
}

// ShowConnections renders the full connection screen. A full page load is a fresh
// mount, so providers left waiting on a hosted auth redirect become clickable again.
func (h *ConnectionHandler) ShowConnections(w http.ResponseWriter, r *http.Request) {
	if !render.IsHTMX(r) {
		h.view.Remount()
	}
	data := h.data()
	h.flash.consume(w, r).apply(data)
	h.render.Render(w, r, "connections.html", data)
}

// ShowStatus renders only the status panel. It is polled by the page.
func (h *ConnectionHandler) ShowStatus(w http.ResponseWriter, r *http.Request) {
	h.render.RenderBlock(w, r, "connections.html", "status", h.data())
}

// HandleConnect links a provider. A hosted auth outcome navigates the whole page
// to the provider; anything else re-renders the status panel.
func (h *ConnectionHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	provider := models.Provider(chi.URLParam(r, "provider"))

	outcome, err := h.controller.Connect(r.Context(), provider)
	switch {
	case errors.Is(err, connection.ErrUnknownProvider):
		writeJSON(w, http.StatusNotFound, jsonResponse{Error: "unknown provider"})
		return
	case errors.Is(err, connection.ErrConnectInFlight):
		slog.Debug("connect already in flight", "provider", provider)
	case err != nil:
		slog.Error("failed to connect provider", "provider", provider, "error", err)
	case outcome.Redirect():
		redirect(w, r, outcome.RedirectURL)
		return
	}

	h.afterAction(w, r)
}

// HandleSync asks the backend to resync every account.
func (h *ConnectionHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Sync(r.Context()); err != nil && !errors.Is(err, connection.ErrSyncInFlight) {
		slog.Error("failed to sync accounts", "error", err)
	}
	h.afterAction(w, r)
}

// HandleDisconnect removes one account and returns to the connection screen.
func (h *ConnectionHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	msg, err := h.controller.Disconnect(r.Context(), accountID)
	if err != nil {
		slog.Error("failed to disconnect account", "account_id", accountID, "error", err)
		h.flash.error(w, h.view.Snapshot().Error)
	} else {
		h.flash.success(w, msg)
	}
	redirect(w, r, "/")
}

// afterAction answers htmx with the fresh status panel and plain form posts with
// a redirect back to the screen.
func (h *ConnectionHandler) afterAction(w http.ResponseWriter, r *http.Request) {
	if render.IsHTMX(r) {
		h.ShowStatus(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
