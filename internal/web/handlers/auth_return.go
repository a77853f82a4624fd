package handlers

import (
	"net/http"

	"github.com/znz-systems/linkboard/internal/oauthreturn"
	"github.com/znz-systems/linkboard/internal/web/render"
)

// AuthReturnHandler serves the pages a provider's OAuth flow redirects back to.
type AuthReturnHandler struct {
	service *oauthreturn.Service
	render  *render.Renderer
}

func NewAuthReturnHandler(s *oauthreturn.Service, r *render.Renderer) *AuthReturnHandler {
	return &AuthReturnHandler{service: s, render: r}
}

// ShowSuccess renders the landing shell. It never waits on the backend; a
// processing page completes itself through HandleComplete once loaded.
func (h *AuthReturnHandler) ShowSuccess(w http.ResponseWriter, r *http.Request) {
	page := h.service.Mount(r.URL.Query())
	h.render.Render(w, r, "auth_success.html", map[string]interface{}{"Page": page})
}

// HandleComplete finalizes the link and renders the resulting state panel. The
// retry button posts here again.
func (h *AuthReturnHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	page := h.service.Complete(r.Context(), r.URL.Query())
	data := map[string]interface{}{"Page": page}
	if render.IsHTMX(r) {
		h.render.RenderBlock(w, r, "auth_success.html", "auth_state", data)
		return
	}
	h.render.Render(w, r, "auth_success.html", data)
}

// HandleContinue sends the browser back to the connection screen once the
// completed page has been shown for its delay.
func (h *AuthReturnHandler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/")
}

// ShowError renders the failed connection page.
func (h *AuthReturnHandler) ShowError(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "auth_error.html", map[string]interface{}{
		"Page": oauthreturn.NewErrorPage(r.URL.Query()),
	})
}
