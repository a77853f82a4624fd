package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/znz-systems/linkboard/internal/models"
	"github.com/znz-systems/linkboard/internal/web/render"
	"github.com/znz-systems/linkboard/templates"
)

// --- Shared fake backend used by every handler test ---

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	status   *models.ConnectionStatus
	accounts []models.Account
	statusFn func() error

	connect    *models.ActionResponse
	connectErr error
	hosted     *models.HostedAuthResponse
	hostedErr  error
	sync       *models.ActionResponse
	syncErr    error
	disconnect *models.ActionResponse
	complete   *models.ActionResponse

	people   []models.Person
	messages map[string][]models.Message
	recent   []models.Message
	stats    models.Stats

	search    *models.PeopleSearchResponse
	searchErr error
	lastQuery models.PeopleSearchRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: make(map[string]int),
		status: &models.ConnectionStatus{
			Gmail: models.ProviderStatus{Connected: true, Accounts: []models.Account{
				{ID: "acc-g", Provider: "GOOGLE", Email: "me@example.com", Status: "OK"},
			}},
		},
		accounts: []models.Account{
			{ID: "acc-g", Provider: "GOOGLE", Email: "me@example.com", Status: "OK"},
		},
		connect:    &models.ActionResponse{Success: true},
		sync:       &models.ActionResponse{Success: true},
		disconnect: &models.ActionResponse{Success: true, Message: "Account removed"},
		complete:   &models.ActionResponse{Success: true},
		messages:   map[string][]models.Message{},
	}
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) GetConnectionStatus(context.Context) (*models.ConnectionStatus, error) {
	f.record("status")
	if f.statusFn != nil {
		if err := f.statusFn(); err != nil {
			return nil, err
		}
	}
	return f.status, nil
}

func (f *fakeBackend) GetAccounts(context.Context) (*models.AccountsResponse, error) {
	f.record("accounts")
	return &models.AccountsResponse{Accounts: f.accounts, Total: len(f.accounts)}, nil
}

func (f *fakeBackend) ConnectLatestAccount(context.Context, string) (*models.ActionResponse, error) {
	f.record("connect")
	return f.connect, f.connectErr
}

func (f *fakeBackend) CreateHostedAuth(context.Context, string, string) (*models.HostedAuthResponse, error) {
	f.record("hosted")
	return f.hosted, f.hostedErr
}

func (f *fakeBackend) SyncAccounts(context.Context) (*models.ActionResponse, error) {
	f.record("sync")
	return f.sync, f.syncErr
}

func (f *fakeBackend) DisconnectAccount(context.Context, string) (*models.ActionResponse, error) {
	f.record("disconnect")
	return f.disconnect, nil
}

func (f *fakeBackend) CompleteOAuthManually(context.Context, string, string) (*models.ActionResponse, error) {
	f.record("complete")
	return f.complete, nil
}

func (f *fakeBackend) GetPeople(context.Context) (*models.PeopleResponse, error) {
	f.record("people")
	return &models.PeopleResponse{People: f.people, Total: len(f.people)}, nil
}

func (f *fakeBackend) GetPersonMessages(_ context.Context, personID string) (*models.MessagesResponse, error) {
	f.record("person_messages")
	return &models.MessagesResponse{Messages: f.messages[personID]}, nil
}

func (f *fakeBackend) GetRecentMessages(context.Context, int) (*models.MessagesResponse, error) {
	f.record("recent")
	return &models.MessagesResponse{Messages: f.recent}, nil
}

func (f *fakeBackend) GetStats(context.Context) (models.Stats, error) {
	f.record("stats")
	if f.stats == nil {
		return nil, errors.New("stats unavailable")
	}
	return f.stats, nil
}

func (f *fakeBackend) PeopleSearch(_ context.Context, req models.PeopleSearchRequest) (*models.PeopleSearchResponse, error) {
	f.record("search")
	f.lastQuery = req
	return f.search, f.searchErr
}

// --- Helpers ---

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r := render.NewRenderer(templates.FS, Funcs())
	for _, page := range []string{"connections.html", "dashboard.html", "search.html", "auth_success.html", "auth_error.html"} {
		require.True(t, r.Has(page), "template %s did not parse", page)
	}
	return r
}

func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

func form(values string) *strings.Reader {
	return strings.NewReader(values)
}

func postForm(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, form(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

var testTime = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
