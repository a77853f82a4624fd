package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/znz-systems/linkboard/internal/models"
)

// DefaultUserID is sent as user_id when the caller does not supply one.
const DefaultUserID = "default_user"

const requestIDHeader = "X-Request-ID"

// Client is a thin typed wrapper over the aggregation backend's HTTP API.
// Every method issues exactly one request: no retries, no caching and no client-side
// timeout beyond the caller's context.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL. A nil httpClient uses a
// fresh http.Client with no timeout.
func NewClient(baseURL, userID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if userID == "" {
		userID = DefaultUserID
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    httpClient,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) user(userID string) string {
	if userID == "" {
		return c.userID
	}
	return userID
}

// CreateHostedAuth asks the backend for a hosted auth link for provider.
func (c *Client) CreateHostedAuth(ctx context.Context, provider, userID string) (*models.HostedAuthResponse, error) {
	var out models.HostedAuthResponse
	body := models.HostedAuthRequest{Provider: provider, UserID: c.user(userID)}
	if err := c.do(ctx, "create hosted auth", http.MethodPost, "/api/auth/hosted-auth/create", body, &out, "Failed to create auth link"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteOAuthManually finalizes a provider link after the OAuth redirect returns.
func (c *Client) CompleteOAuthManually(ctx context.Context, provider, userID string) (*models.ActionResponse, error) {
	var out models.ActionResponse
	body := models.HostedAuthRequest{Provider: provider, UserID: c.user(userID)}
	if err := c.do(ctx, "complete oauth", http.MethodPost, "/api/auth/manual/oauth-success", body, &out, "Failed to complete OAuth manually"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConnectionStatus(ctx context.Context) (*models.ConnectionStatus, error) {
	var out models.ConnectionStatus
	if err := c.do(ctx, "get connection status", http.MethodGet, "/api/auth/accounts/status", nil, &out, "Failed to get connection status"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAccounts(ctx context.Context) (*models.AccountsResponse, error) {
	var out models.AccountsResponse
	if err := c.do(ctx, "get accounts", http.MethodGet, "/api/auth/accounts", nil, &out, "Failed to get accounts"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectLatestAccount links the most recently authorised account for provider
// without leaving the dashboard.
func (c *Client) ConnectLatestAccount(ctx context.Context, provider string) (*models.ActionResponse, error) {
	var out models.ActionResponse
	path := "/api/auth/connect/" + url.PathEscape(provider)
	if err := c.do(ctx, "connect "+provider, http.MethodPost, path, struct{}{}, &out, "Failed to connect "+provider); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncAccounts asks the backend to resync linked accounts from the aggregation provider.
func (c *Client) SyncAccounts(ctx context.Context) (*models.ActionResponse, error) {
	var out models.ActionResponse
	if err := c.do(ctx, "sync accounts", http.MethodPost, "/api/auth/sync-accounts", struct{}{}, &out, "Failed to sync accounts"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DisconnectAccount(ctx context.Context, accountID string) (*models.ActionResponse, error) {
	var out models.ActionResponse
	path := "/api/auth/accounts/" + url.PathEscape(accountID)
	if err := c.do(ctx, "disconnect account", http.MethodDelete, path, nil, &out, "Failed to disconnect account"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPeople(ctx context.Context) (*models.PeopleResponse, error) {
	var out models.PeopleResponse
	if err := c.do(ctx, "get people", http.MethodGet, "/api/people", nil, &out, "Failed to get people"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPersonMessages(ctx context.Context, personID string) (*models.MessagesResponse, error) {
	var out models.MessagesResponse
	path := "/api/people/" + url.PathEscape(personID) + "/messages"
	if err := c.do(ctx, "get person messages", http.MethodGet, path, nil, &out, "Failed to get person messages"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecentMessages lists the latest messages across all accounts. A limit of zero
// or less requests 50.
func (c *Client) GetRecentMessages(ctx context.Context, limit int) (*models.MessagesResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	var out models.MessagesResponse
	path := "/api/messages?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, "get recent messages", http.MethodGet, path, nil, &out, "Failed to get recent messages"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStats(ctx context.Context) (models.Stats, error) {
	out := models.Stats{}
	if err := c.do(ctx, "get stats", http.MethodGet, "/api/stats", nil, &out, "Failed to get stats"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PeopleSearch(ctx context.Context, req models.PeopleSearchRequest) (*models.PeopleSearchResponse, error) {
	var out models.PeopleSearchResponse
	if err := c.do(ctx, "linkedin people search", http.MethodPost, "/api/linkedin/people-search", req, &out, "Search failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues a single request and decodes a 2xx JSON body into out. Non-2xx responses
// become *APIError carrying the body's detail, or generic when there is none.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any, generic string) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID(ctx))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "backend request failed", "op", op, "method", method, "path", path, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "backend request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp, generic)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// requestID reuses the inbound chi request id when there is one so a dashboard request
// and the backend calls it caused share an id.
func requestID(ctx context.Context) string {
	if id := chiMiddleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// Message normalises any client error into text fit for an error banner. Backend
// details win; transport errors show their own text; nil yields fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
