package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrStale is returned by Select when a newer selection superseded the request
// before its response arrived. The response is dropped.
var ErrStale = errors.New("selection superseded")

// Backend is the slice of the backend API the browser reads.
type Backend interface {
	GetPeople(ctx context.Context) (*models.PeopleResponse, error)
	GetAccounts(ctx context.Context) (*models.AccountsResponse, error)
	GetPersonMessages(ctx context.Context, personID string) (*models.MessagesResponse, error)
	GetRecentMessages(ctx context.Context, limit int) (*models.MessagesResponse, error)
}

// Browser holds the people list and the selected person's messages. People and
// accounts are loaded on every full page mount and on explicit refresh; fragment
// requests reuse the last successful load.
type Browser struct {
	backend Backend

	mu              sync.RWMutex
	loaded          bool
	people          []models.Person
	accounts        []models.Account
	selectedID      string
	messages        []models.Message
	messagesLoading bool
	generation      uint64
	err             string
}

func New(b Backend) *Browser {
	return &Browser{backend: b}
}

// Snapshot is a copy of the browser state for rendering.
type Snapshot struct {
	Loaded          bool
	People          []models.Person
	Accounts        []models.Account
	Selected        *models.Person
	Messages        []models.Message
	MessagesLoading bool
	Error           string
}

func (b *Browser) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Loaded:          b.loaded,
		People:          b.people,
		Accounts:        b.accounts,
		Messages:        b.messages,
		MessagesLoading: b.messagesLoading,
		Error:           b.err,
	}
	for i := range b.people {
		if b.people[i].ID == b.selectedID {
			p := b.people[i]
			s.Selected = &p
			break
		}
	}
	return s
}

// EnsureLoaded loads people and accounts unless a previous load succeeded.
func (b *Browser) EnsureLoaded(ctx context.Context) error {
	b.mu.RLock()
	loaded := b.loaded
	b.mu.RUnlock()
	if loaded {
		return nil
	}
	return b.Load(ctx)
}

// Load fetches people and accounts together and replaces both. On failure the
// previous lists stay and the error is recorded.
func (b *Browser) Load(ctx context.Context) error {
	var (
		people   *models.PeopleResponse
		accounts *models.AccountsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := b.backend.GetPeople(gctx)
		people = p
		return err
	})
	g.Go(func() error {
		a, err := b.backend.GetAccounts(gctx)
		accounts = a
		return err
	})

	err := g.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.err = backend.Message(err, "Failed to load data")
		slog.Warn("failed to load dashboard data", "error", err)
		return err
	}
	b.people = people.People
	b.accounts = accounts.Accounts
	b.loaded = true
	b.err = ""
	return nil
}

// Select makes personID the current selection and fetches its messages. Only the
// most recent selection's response is kept.
func (b *Browser) Select(ctx context.Context, personID string) error {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.selectedID = personID
	b.messages = nil
	b.messagesLoading = true
	b.mu.Unlock()

	resp, err := b.backend.GetPersonMessages(ctx, personID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		slog.Debug("dropping stale person messages", "person_id", personID)
		return ErrStale
	}
	b.messagesLoading = false
	if err != nil {
		b.err = backend.Message(err, "Failed to load messages")
		return fmt.Errorf("loading messages for %s: %w", personID, err)
	}
	b.messages = resp.Messages
	return nil
}

// Recent lists the latest messages across all accounts.
func (b *Browser) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	resp, err := b.backend.GetRecentMessages(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent messages: %w", err)
	}
	return resp.Messages, nil
}
