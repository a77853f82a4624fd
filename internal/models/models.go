package models

import (
	"strings"
)

// Provider identifies an account provider on the aggregation backend.
type Provider string

const (
	ProviderGmail    Provider = "gmail"
	ProviderLinkedIn Provider = "linkedin"
)

// Providers lists every provider the dashboard can connect.
var Providers = []Provider{ProviderGmail, ProviderLinkedIn}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderGmail || p == ProviderLinkedIn
}

// Label is the human readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderGmail:
		return "Gmail"
	case ProviderLinkedIn:
		return "LinkedIn"
	default:
		return string(p)
	}
}

// Channel tags used on people and messages.
const (
	ChannelAll      = "all"
	ChannelEmail    = "email"
	ChannelLinkedIn = "linkedin"
)

type Account struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	Status      string    `json:"status"`
	ConnectedAt Timestamp `json:"connected_at"`
}

// DisplayName falls back from name to email to provider.
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return a.Provider
}

// IsGmail reports whether the backend tagged the account as a Google account.
func (a Account) IsGmail() bool {
	return strings.EqualFold(a.Provider, "GOOGLE")
}

type ProviderStatus struct {
	Connected bool      `json:"connected"`
	Accounts  []Account `json:"accounts"`
}

// ConnectionStatus is the backend's aggregate view of linked accounts.
// It is always replaced wholesale, never edited in place.
type ConnectionStatus struct {
	Gmail         ProviderStatus `json:"gmail"`
	LinkedIn      ProviderStatus `json:"linkedin"`
	BothConnected bool           `json:"both_connected"`
	TotalAccounts int            `json:"total_accounts"`
}

// For returns the status of a single provider.
func (s *ConnectionStatus) For(p Provider) ProviderStatus {
	if s == nil {
		return ProviderStatus{}
	}
	switch p {
	case ProviderGmail:
		return s.Gmail
	case ProviderLinkedIn:
		return s.LinkedIn
	default:
		return ProviderStatus{}
	}
}

// DerivedBothConnected recomputes both_connected from the per-provider flags.
func (s *ConnectionStatus) DerivedBothConnected() bool {
	if s == nil {
		return false
	}
	return s.Gmail.Connected && s.LinkedIn.Connected
}

// DerivedTotal recomputes total_accounts from the per-provider account lists.
func (s *ConnectionStatus) DerivedTotal() int {
	if s == nil {
		return 0
	}
	return len(s.Gmail.Accounts) + len(s.LinkedIn.Accounts)
}

type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
	Total    int       `json:"total"`
}

type HostedAuthRequest struct {
	Provider string `json:"provider"`
	UserID   string `json:"user_id"`
}

type HostedAuthResponse struct {
	Success  bool   `json:"success"`
	AuthURL  string `json:"auth_url"`
	Provider string `json:"provider"`
	IsReal   bool   `json:"is_real"`
	Message  string `json:"message"`
}

// Usable reports whether the response carries a real auth URL worth navigating to.
func (r *HostedAuthResponse) Usable() bool {
	return r != nil && r.Success && r.IsReal && r.AuthURL != ""
}

// ActionResponse is the envelope returned by connect, sync, disconnect and manual
// OAuth completion.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Person struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	MessageCount    int       `json:"message_count"`
	LastMessageDate Timestamp `json:"last_message_date"`
	Channels        []string  `json:"channels"`
}

// HasChannel reports whether the person has been seen on channel.
func (p Person) HasChannel(channel string) bool {
	for _, c := range p.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

type PeopleResponse struct {
	People []Person `json:"people"`
	Total  int      `json:"total"`
}

type Message struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
	ThreadID  string    `json:"thread_id,omitempty"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

// Stats holds the backend's free-form counters from /api/stats.
type Stats map[string]any
