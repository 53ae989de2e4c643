// Package auth manages the Google OAuth session: token storage, the
// interactive consent flow, and the token source attached to outgoing
// spreadsheet calls.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"callboard/internal/config"
)

// SheetsScope is the OAuth scope required for spreadsheet access.
const SheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// State is the session's sign-in status.
type State int

const (
	// StateInitializing means the stored token has not been examined yet.
	StateInitializing State = iota
	// StateSignedOut means no usable token is stored.
	StateSignedOut
	// StateSignedIn means a token with a refresh token is loaded.
	StateSignedIn
)

// Session owns the bearer token. Other components read it through
// TokenSource before every call and never inspect it.
type Session struct {
	cfg *config.Config

	mu    sync.Mutex
	state State
	token *oauth2.Token
}

// NewSession creates a session bound to the config directory.
func NewSession(cfg *config.Config) *Session {
	return &Session{cfg: cfg, state: StateInitializing}
}

// Initialize loads any stored token and resolves the sign-in state. Safe to
// call again after an external login (the token watcher does exactly that).
func (s *Session) Initialize() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := readToken(s.cfg.TokenPath())
	if err != nil || token.RefreshToken == "" {
		s.token = nil
		s.state = StateSignedOut
		return s.state
	}
	s.token = token
	s.state = StateSignedIn
	return s.state
}

// State returns the current sign-in state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TokenSource returns an auto-refreshing token source for API clients.
// The token is not proactively refreshed beyond what oauth2 does; once the
// refresh token is revoked, downstream calls fail and surface as ordinary
// load/save errors.
func (s *Session) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == nil {
		return nil, transient("not signed in", nil)
	}
	oc, err := s.oauthConfig()
	if err != nil {
		return nil, err
	}
	return oc.TokenSource(ctx, token), nil
}

// Logout removes the stored token and signs the session out.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.state = StateSignedOut
	err := s.cfg.RemoveToken()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// oauthConfig loads the OAuth client credentials from the config directory.
func (s *Session) oauthConfig() (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(s.cfg.OAuthClientPath())
	if err != nil {
		return nil, configErr("", fmt.Sprintf("oauth_client.json not found in %s", s.cfg.Dir()), err)
	}
	oc, err := google.ConfigFromJSON(clientJSON, SheetsScope)
	if err != nil {
		return nil, configErr("", "invalid oauth_client.json", err)
	}
	return oc, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
