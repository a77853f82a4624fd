package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/znz-systems/linkboard/internal/connection"
	"github.com/znz-systems/linkboard/internal/web/render"
)

// HealthHandler reports process liveness and how fresh the connection snapshot is.
type HealthHandler struct {
	view *connection.View
}

func NewHealthHandler(view *connection.View) *HealthHandler {
	return &HealthHandler{view: view}
}

type healthResponse struct {
	Status        string `json:"status"`
	LastRefreshed string `json:"last_refreshed,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HandleHealth always answers 200 while the process is serving. A backend outage
// shows up in the error field, not the status code.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.view.Snapshot()
	resp := healthResponse{Status: "ok", Error: snap.Error}
	if !snap.UpdatedAt.IsZero() {
		resp.LastRefreshed = snap.UpdatedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// jsonResponse is the envelope for JSON error replies.
type jsonResponse struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// writeJSON serialises v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// redirect sends the browser to target. htmx requests get HX-Redirect so the whole
// page navigates instead of swapping the response into a fragment.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
