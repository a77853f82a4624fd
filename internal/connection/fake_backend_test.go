package connection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/znz-systems/linkboard/internal/models"
)

// fakeBackend answers with canned responses and counts calls. Any func left nil
// returns a generic error.
type fakeBackend struct {
	mu sync.Mutex

	status     func(ctx context.Context) (*models.ConnectionStatus, error)
	accounts   func(ctx context.Context) (*models.AccountsResponse, error)
	connect    func(ctx context.Context, provider string) (*models.ActionResponse, error)
	hosted     func(ctx context.Context, provider, userID string) (*models.HostedAuthResponse, error)
	sync       func(ctx context.Context) (*models.ActionResponse, error)
	disconnect func(ctx context.Context, accountID string) (*models.ActionResponse, error)

	statusCalls     atomic.Int32
	accountsCalls   atomic.Int32
	connectCalls    atomic.Int32
	hostedCalls     atomic.Int32
	syncCalls       atomic.Int32
	disconnectCalls atomic.Int32

	// order records which backend operation ran, in call order.
	order []string
}

var errFake = errors.New("fake backend error")

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	f.order = append(f.order, op)
	f.mu.Unlock()
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func (f *fakeBackend) GetConnectionStatus(ctx context.Context) (*models.ConnectionStatus, error) {
	f.statusCalls.Add(1)
	if f.status == nil {
		return nil, errFake
	}
	return f.status(ctx)
}

func (f *fakeBackend) GetAccounts(ctx context.Context) (*models.AccountsResponse, error) {
	f.accountsCalls.Add(1)
	if f.accounts == nil {
		return nil, errFake
	}
	return f.accounts(ctx)
}

func (f *fakeBackend) ConnectLatestAccount(ctx context.Context, provider string) (*models.ActionResponse, error) {
	f.connectCalls.Add(1)
	f.record("connect:" + provider)
	if f.connect == nil {
		return nil, errFake
	}
	return f.connect(ctx, provider)
}

func (f *fakeBackend) CreateHostedAuth(ctx context.Context, provider, userID string) (*models.HostedAuthResponse, error) {
	f.hostedCalls.Add(1)
	f.record("hosted:" + provider)
	if f.hosted == nil {
		return nil, errFake
	}
	return f.hosted(ctx, provider, userID)
}

func (f *fakeBackend) SyncAccounts(ctx context.Context) (*models.ActionResponse, error) {
	f.syncCalls.Add(1)
	if f.sync == nil {
		return nil, errFake
	}
	return f.sync(ctx)
}

func (f *fakeBackend) DisconnectAccount(ctx context.Context, accountID string) (*models.ActionResponse, error) {
	f.disconnectCalls.Add(1)
	if f.disconnect == nil {
		return nil, errFake
	}
	return f.disconnect(ctx, accountID)
}

func fixtureStatus() *models.ConnectionStatus {
	gmail := models.Account{ID: "g1", Provider: "GOOGLE", Email: "ann@example.com", Status: "active"}
	li1 := models.Account{ID: "l1", Provider: "LINKEDIN", Name: "Ann A", Status: "active"}
	li2 := models.Account{ID: "l2", Provider: "LINKEDIN", Name: "Ann B", Status: "active"}
	return &models.ConnectionStatus{
		Gmail:         models.ProviderStatus{Connected: true, Accounts: []models.Account{gmail}},
		LinkedIn:      models.ProviderStatus{Connected: true, Accounts: []models.Account{li1, li2}},
		BothConnected: true,
		TotalAccounts: 3,
	}
}

func healthyStatus(f *fakeBackend) {
	f.status = func(context.Context) (*models.ConnectionStatus, error) {
		return fixtureStatus(), nil
	}
	f.accounts = func(context.Context) (*models.AccountsResponse, error) {
		s := fixtureStatus()
		all := append(append([]models.Account{}, s.Gmail.Accounts...), s.LinkedIn.Accounts...)
		return &models.AccountsResponse{Accounts: all, Total: len(all)}, nil
	}
}
