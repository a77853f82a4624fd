// Package oauthreturn models the pages a browser lands on when an OAuth or hosted
// auth flow hands control back to the dashboard.
package oauthreturn

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/models"
)

// State is the render state of the success page.
type State string

const (
	StateProcessing State = "processing"
	StateError      State = "error"
	StateCompleted  State = "completed"
)

// DefaultRedirectDelay is how long the completed page waits before returning to the
// dashboard.
const DefaultRedirectDelay = 3 * time.Second

// Completer finalizes a provider link server-side.
type Completer interface {
	CompleteOAuthManually(ctx context.Context, provider, userID string) (*models.ActionResponse, error)
}

// Page is everything the success template needs.
type Page struct {
	State State
	// Provider is the provider label shown to the user.
	Provider string
	// CompleteProvider is the provider sent to the backend.
	CompleteProvider string
	Test             bool
	Error            string
	// RedirectAfter is non-zero when the page should navigate to the dashboard by itself.
	RedirectAfter time.Duration
}

// RedirectSeconds is RedirectAfter in whole seconds for templates.
func (p Page) RedirectSeconds() int {
	return int(p.RedirectAfter / time.Second)
}

// Query returns the query string that reproduces this page's parameters.
func (p Page) Query() string {
	v := url.Values{}
	if p.CompleteProvider != "" {
		v.Set("provider", p.CompleteProvider)
	}
	return v.Encode()
}

type Service struct {
	completer     Completer
	userID        string
	redirectDelay time.Duration
}

func NewService(c Completer, userID string, redirectDelay time.Duration) *Service {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &Service{
		completer:     c,
		userID:        userID,
		redirectDelay: redirectDelay,
	}
}

// Mount builds the first render of the success page. It never calls the backend;
// the processing state asks the browser to start completion once it has the page.
func (s *Service) Mount(q url.Values) Page {
	p := basePage(q)
	if p.Test {
		p.State = StateCompleted
		return p
	}
	p.State = StateProcessing
	return p
}

// Complete finalizes the link with exactly one backend call and returns the
// resulting page. Retry calls Complete again with the same query.
func (s *Service) Complete(ctx context.Context, q url.Values) Page {
	p := basePage(q)
	if p.Test {
		p.State = StateCompleted
		return p
	}

	slog.Info("completing oauth", "provider", p.CompleteProvider)
	resp, err := s.completer.CompleteOAuthManually(ctx, p.CompleteProvider, s.userID)
	if err != nil {
		slog.Error("failed to complete oauth", "provider", p.CompleteProvider, "error", err)
		p.State = StateError
		p.Error = backend.Message(err, "Failed to complete connection")
		return p
	}
	if resp == nil || !resp.Success {
		p.State = StateError
		p.Error = "Failed to complete connection"
		if resp != nil && resp.Message != "" {
			p.Error = resp.Message
		}
		slog.Warn("oauth completion unsuccessful", "provider", p.CompleteProvider, "message", p.Error)
		return p
	}

	p.State = StateCompleted
	p.RedirectAfter = s.redirectDelay
	return p
}

func basePage(q url.Values) Page {
	provider := q.Get("provider")
	p := Page{
		Provider:         provider,
		CompleteProvider: provider,
		Test:             q.Get("test") == "true",
	}
	if p.Provider == "" {
		p.Provider = "account"
	}
	if p.CompleteProvider == "" {
		p.CompleteProvider = string(models.ProviderGmail)
	}
	return p
}

// ErrorPage is the purely presentational failure page.
type ErrorPage struct {
	Message  string
	Provider string
}

// NewErrorPage reads error and provider from q. It makes no backend call.
func NewErrorPage(q url.Values) ErrorPage {
	provider := q.Get("provider")
	msg := q.Get("error")
	if msg == "" {
		label := provider
		if label == "" {
			label = "account"
		}
		msg = fmt.Sprintf("Failed to connect your %s. Please try again.", label)
	}
	return ErrorPage{Message: msg, Provider: provider}
}
