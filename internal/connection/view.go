package connection

import (
	"sync"
	"time"

	"github.com/znz-systems/linkboard/internal/models"
)

// ActionState is the per-provider position in the connect flow.
type ActionState int

const (
	StateIdle ActionState = iota
	StateConnecting
	// StateRedirectPending means the browser was sent to a hosted auth page. It is
	// cleared when the connection view is mounted again.
	StateRedirectPending
)

func (s ActionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateRedirectPending:
		return "redirect-pending"
	default:
		return "idle"
	}
}

// View is the in-memory state behind the connection screen. The backend snapshot
// (status + accounts) is only ever replaced as a pair.
type View struct {
	mu          sync.RWMutex
	status      *models.ConnectionStatus
	accounts    []models.Account
	actions     map[models.Provider]ActionState
	syncLoading bool
	err         string
	updatedAt   time.Time
}

func NewView() *View {
	return &View{actions: make(map[models.Provider]ActionState)}
}

// Snapshot is an immutable copy of View for rendering.
type Snapshot struct {
	Status      *models.ConnectionStatus
	Accounts    []models.Account
	Actions     map[models.Provider]ActionState
	SyncLoading bool
	Error       string
	UpdatedAt   time.Time
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	actions := make(map[models.Provider]ActionState, len(v.actions))
	for p, s := range v.actions {
		actions[p] = s
	}
	return Snapshot{
		Status:      v.status,
		Accounts:    v.accounts,
		Actions:     actions,
		SyncLoading: v.syncLoading,
		Error:       v.err,
		UpdatedAt:   v.updatedAt,
	}
}

// Remount resets state that only lives as long as a single page: redirect-pending
// providers go back to idle. In-flight connects are left alone.
func (v *View) Remount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for p, s := range v.actions {
		if s == StateRedirectPending {
			delete(v.actions, p)
		}
	}
}

func (v *View) replace(status *models.ConnectionStatus, accounts []models.Account) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
	v.accounts = accounts
	v.err = ""
	v.updatedAt = time.Now()
}

func (v *View) setError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = msg
}

// beginConnect moves provider to connecting and clears the error. It reports false
// when a connect for provider is already under way.
func (v *View) beginConnect(p models.Provider) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.actions[p] != StateIdle {
		return false
	}
	v.actions[p] = StateConnecting
	v.err = ""
	return true
}

// endConnect returns provider to idle, recording msg as the error when non-empty.
func (v *View) endConnect(p models.Provider, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.actions, p)
	if msg != "" {
		v.err = msg
	}
}

func (v *View) redirectPending(p models.Provider) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.actions[p] = StateRedirectPending
}

func (v *View) beginSync() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.syncLoading {
		return false
	}
	v.syncLoading = true
	v.err = ""
	return true
}

func (v *View) endSync() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.syncLoading = false
}

// Loading reports whether provider has a connect in flight or pending redirect.
func (s Snapshot) Loading(p models.Provider) bool {
	return s.Actions[p] != StateIdle
}

func (s Snapshot) State(p models.Provider) ActionState {
	return s.Actions[p]
}

func (s Snapshot) Connected(p models.Provider) bool {
	return s.Status.For(p).Connected
}

func (s Snapshot) AccountCount(p models.Provider) int {
	return len(s.Status.For(p).Accounts)
}

// TotalAccounts is the summary count. It is derived from the per-provider lists so
// the three numbers on screen always agree.
func (s Snapshot) TotalAccounts() int {
	return s.Status.DerivedTotal()
}

func (s Snapshot) BothConnected() bool {
	return s.Status.DerivedBothConnected()
}

// ProviderAccounts lists the accounts the latest status reports for provider.
func (s Snapshot) ProviderAccounts(p models.Provider) []models.Account {
	return s.Status.For(p).Accounts
}
