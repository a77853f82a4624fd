package connection

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "status"

// StatusSource is the slice of the backend the poller reads.
type StatusSource interface {
	GetConnectionStatus(ctx context.Context) (*models.ConnectionStatus, error)
	GetAccounts(ctx context.Context) (*models.AccountsResponse, error)
}

type PollerOptions struct {
	Interval time.Duration
	Jitter   time.Duration
}

// Poller keeps a View eventually consistent with the backend by constant-rate polling.
type Poller struct {
	source   StatusSource
	view     *View
	interval time.Duration
	jitter   time.Duration
	group    singleflight.Group

	// seq orders fetches by start; applied is the newest one written to the view.
	mu      sync.Mutex
	seq     uint64
	applied uint64
}

func NewPoller(source StatusSource, view *View, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	jitter := opts.Jitter
	if jitter < 0 {
		jitter = 0
	}
	return &Poller{
		source:   source,
		view:     view,
		interval: interval,
		jitter:   jitter,
	}
}

// Interval is the base delay between polls.
func (p *Poller) Interval() time.Duration { return p.interval }

// Run polls immediately and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	_ = p.Refresh(ctx)

	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			_ = p.Refresh(ctx)
			timer.Reset(p.nextDelay())
		}
	}
}

// Refresh fetches status and accounts together. Concurrent callers share one
// in-flight fetch.
func (p *Poller) Refresh(ctx context.Context) error {
	_, err, _ := p.group.Do(refreshKey, func() (any, error) {
		return nil, p.fetch(ctx)
	})
	return err
}

// RefreshAfterChange refreshes after a mutation on the backend. It never joins a
// fetch that started before the call, since that fetch may predate the change.
func (p *Poller) RefreshAfterChange(ctx context.Context) error {
	p.group.Forget(refreshKey)
	return p.Refresh(ctx)
}

func (p *Poller) fetch(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	var (
		status   *models.ConnectionStatus
		accounts *models.AccountsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.source.GetConnectionStatus(gctx)
		status = s
		return err
	})
	g.Go(func() error {
		a, err := p.source.GetAccounts(gctx)
		accounts = a
		return err
	})

	err := g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq < p.applied {
		slog.Debug("dropping superseded status fetch", "seq", seq)
		return err
	}

	if err != nil {
		// A cancelled caller says nothing about the backend; keep the banner as is.
		if ctx.Err() == nil {
			p.view.setError(backend.Message(err, "Failed to load status"))
			slog.Warn("failed to load connection status", "error", err)
		}
		return err
	}

	var list []models.Account
	if accounts != nil {
		list = accounts.Accounts
	}
	p.applied = seq
	p.view.replace(status, list)
	return nil
}

func (p *Poller) nextDelay() time.Duration {
	if p.jitter <= 0 {
		return p.interval
	}
	return p.interval + time.Duration(rand.Int64N(int64(p.jitter)))
}
