package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/models"
)

// Sentinel errors returned by Controller methods.
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrConnectInFlight = errors.New("connect already in progress")
	ErrSyncInFlight    = errors.New("sync already in progress")
	ErrActionFailed    = errors.New("action failed")
)

// Backend is everything the controller needs from the aggregation backend.
type Backend interface {
	StatusSource
	ConnectLatestAccount(ctx context.Context, provider string) (*models.ActionResponse, error)
	CreateHostedAuth(ctx context.Context, provider, userID string) (*models.HostedAuthResponse, error)
	SyncAccounts(ctx context.Context) (*models.ActionResponse, error)
	DisconnectAccount(ctx context.Context, accountID string) (*models.ActionResponse, error)
}

// Outcome tells the caller what the page should do after a connect attempt.
type Outcome struct {
	// RedirectURL is set when the browser must leave for a hosted auth page.
	RedirectURL string
}

func (o Outcome) Redirect() bool { return o.RedirectURL != "" }

// Controller runs user-triggered connect, sync and disconnect actions against the
// backend and records their progress in the shared View.
type Controller struct {
	backend Backend
	poller  *Poller
	view    *View
	userID  string
}

func NewController(b Backend, poller *Poller, view *View, userID string) *Controller {
	return &Controller{
		backend: b,
		poller:  poller,
		view:    view,
		userID:  userID,
	}
}

// Connect links provider. It first tries the in-page completion path and, if that
// fails for any reason, falls back to a hosted auth link exactly once.
func (c *Controller) Connect(ctx context.Context, provider models.Provider) (Outcome, error) {
	if !provider.Valid() {
		return Outcome{}, ErrUnknownProvider
	}
	if !c.view.beginConnect(provider) {
		return Outcome{}, ErrConnectInFlight
	}

	resp, err := c.backend.ConnectLatestAccount(ctx, string(provider))
	if err == nil && resp != nil && resp.Success {
		if refreshErr := c.poller.RefreshAfterChange(ctx); refreshErr != nil {
			slog.Warn("refresh after connect failed", "provider", provider, "error", refreshErr)
		}
		c.view.endConnect(provider, "")
		slog.Info("provider connected", "provider", provider)
		return Outcome{}, nil
	}
	slog.Warn("connect failed, falling back to hosted auth",
		"provider", provider,
		"error", actionMessage(resp, err, "Failed to connect account"),
	)

	auth, err := c.backend.CreateHostedAuth(ctx, string(provider), c.userID)
	if err == nil && auth.Usable() {
		c.view.redirectPending(provider)
		slog.Info("redirecting to hosted auth", "provider", provider)
		return Outcome{RedirectURL: auth.AuthURL}, nil
	}

	msg := "Failed to create auth link"
	switch {
	case err != nil:
		msg = backend.Message(err, "Connection failed")
	case auth != nil && auth.Message != "":
		msg = auth.Message
	}
	c.view.endConnect(provider, msg)
	return Outcome{}, fmt.Errorf("%w: connect %s: %s", ErrActionFailed, provider, msg)
}

// Sync forces the backend to resync accounts. syncLoading is always cleared on
// return, whatever happens inside.
func (c *Controller) Sync(ctx context.Context) error {
	if !c.view.beginSync() {
		return ErrSyncInFlight
	}
	defer c.view.endSync()

	resp, err := c.backend.SyncAccounts(ctx)
	if err != nil || resp == nil || !resp.Success {
		msg := actionMessage(resp, err, "Failed to sync accounts")
		c.view.setError(msg)
		return fmt.Errorf("%w: sync: %s", ErrActionFailed, msg)
	}

	if err := c.poller.RefreshAfterChange(ctx); err != nil {
		slog.Warn("refresh after sync failed", "error", err)
	}
	return nil
}

// Disconnect removes an account on the backend and refreshes the view. It returns
// the backend's confirmation message.
func (c *Controller) Disconnect(ctx context.Context, accountID string) (string, error) {
	resp, err := c.backend.DisconnectAccount(ctx, accountID)
	if err != nil || resp == nil || !resp.Success {
		msg := actionMessage(resp, err, "Failed to disconnect account")
		c.view.setError(msg)
		return "", fmt.Errorf("%w: disconnect %s: %s", ErrActionFailed, accountID, msg)
	}

	if err := c.poller.RefreshAfterChange(ctx); err != nil {
		slog.Warn("refresh after disconnect failed", "account_id", accountID, "error", err)
	}
	if resp.Message != "" {
		return resp.Message, nil
	}
	return "Account disconnected.", nil
}

// actionMessage picks the text to show for a failed action: the error if there is
// one, then the response's message, then fallback.
func actionMessage(resp *models.ActionResponse, err error, fallback string) string {
	if err != nil {
		return backend.Message(err, fallback)
	}
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
