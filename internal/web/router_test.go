package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/browser"
	"github.com/znz-systems/linkboard/internal/connection"
	"github.com/znz-systems/linkboard/internal/linkedin"
	"github.com/znz-systems/linkboard/internal/oauthreturn"
	"github.com/znz-systems/linkboard/internal/ratelimit"
	"github.com/znz-systems/linkboard/internal/web/handlers"
	"github.com/znz-systems/linkboard/internal/web/render"
	"github.com/znz-systems/linkboard/static"
	"github.com/znz-systems/linkboard/templates"
)

// newTestServer wires the real router against a fake aggregation backend.
func newTestServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	syncCalls := 0
	api := http.NewServeMux()
	api.HandleFunc("GET /api/auth/accounts/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"gmail":{"connected":true,"accounts":[{"id":"a1","provider":"GOOGLE","email":"me@example.com","status":"OK"}]},"linkedin":{"connected":false,"accounts":[]},"both_connected":false,"total_accounts":1}`)
	})
	api.HandleFunc("GET /api/auth/accounts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"accounts":[{"id":"a1","provider":"GOOGLE","email":"me@example.com","status":"OK"}],"total":1}`)
	})
	api.HandleFunc("POST /api/auth/sync-accounts", func(w http.ResponseWriter, r *http.Request) {
		syncCalls++
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	api.HandleFunc("GET /api/people", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"people":[],"total":0}`)
	})
	api.HandleFunc("GET /api/messages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"messages":[]}`)
	})
	api.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_messages":0}`)
	})
	api.HandleFunc("POST /api/linkedin/people-search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"results":[]}`)
	})
	backendSrv := httptest.NewServer(api)
	t.Cleanup(backendSrv.Close)

	client := backend.NewClient(backendSrv.URL, "", backendSrv.Client())
	view := connection.NewView()
	poller := connection.NewPoller(client, view, connection.PollerOptions{})
	require.NoError(t, poller.Refresh(context.Background()))
	controller := connection.NewController(client, poller, view, backend.DefaultUserID)
	renderer := render.NewRenderer(templates.FS, handlers.Funcs())

	router := NewRouter(RouterDeps{
		ConnectionHandler: handlers.NewConnectionHandler(controller, view, renderer, poller.Interval(), false),
		DashboardHandler:  handlers.NewDashboardHandler(browser.New(client), client, renderer),
		SearchHandler:     handlers.NewSearchHandler(client, renderer),
		AuthReturnHandler: handlers.NewAuthReturnHandler(oauthreturn.NewService(client, backend.DefaultUserID, time.Second), renderer),
		HealthHandler:     handlers.NewHealthHandler(view),
		Relay:             linkedin.NewRelay(backendSrv.URL+"/api/linkedin/people-search", backendSrv.Client()),
		Limiter:           ratelimit.NewLimiter(100, 100),
		StaticFS:          static.FS,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &syncCalls
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func TestRouter_PagesAndAssets(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/status", "/dashboard", "/search", "/auth/success?test=true", "/auth/error", "/healthz", "/static/app.css"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRouter_ActionsRequireCSRF(t *testing.T) {
	srv, syncCalls := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.Post(srv.URL+"/sync", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, *syncCalls)

	// Fetch a page to get a token, then submit it.
	page, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(page.Body)
	page.Body.Close()
	var token string
	for _, c := range page.Cookies() {
		if c.Name == "csrf_token" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	assert.Contains(t, string(body), token, "the page embeds the token it was issued")

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/sync", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	req.Header.Set("X-CSRF-Token", token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, *syncCalls)
}

func TestRouter_RelayBypassesCSRF(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/linkedin/people-search", "application/json", strings.NewReader(`{"filters":{}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"results":[]}`, string(body))
}
