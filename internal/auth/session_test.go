package auth

import (
	"os"
	"path/filepath"
	"testing"

	"callboard/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return cfg
}

func writeToken(t *testing.T, cfg *config.Config, body string) {
	t.Helper()
	if err := os.WriteFile(cfg.TokenPath(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestInitializeNoToken(t *testing.T) {
	s := NewSession(testConfig(t))
	if s.State() != StateInitializing {
		t.Error("new session should start unresolved")
	}
	if got := s.Initialize(); got != StateSignedOut {
		t.Errorf("Initialize with no token = %v, want StateSignedOut", got)
	}
}

func TestInitializeWithToken(t *testing.T) {
	cfg := testConfig(t)
	writeToken(t, cfg, `{"access_token": "at", "refresh_token": "rt", "token_type": "Bearer"}`)

	s := NewSession(cfg)
	if got := s.Initialize(); got != StateSignedIn {
		t.Errorf("Initialize with stored token = %v, want StateSignedIn", got)
	}
}

func TestInitializeRejectsTokenWithoutRefresh(t *testing.T) {
	cfg := testConfig(t)
	writeToken(t, cfg, `{"access_token": "at", "token_type": "Bearer"}`)

	s := NewSession(cfg)
	if got := s.Initialize(); got != StateSignedOut {
		t.Errorf("token without refresh token = %v, want StateSignedOut", got)
	}
}

func TestInitializeRejectsMalformedToken(t *testing.T) {
	cfg := testConfig(t)
	writeToken(t, cfg, "not json at all")

	s := NewSession(cfg)
	if got := s.Initialize(); got != StateSignedOut {
		t.Errorf("malformed token = %v, want StateSignedOut", got)
	}
}

func TestLogout(t *testing.T) {
	cfg := testConfig(t)
	writeToken(t, cfg, `{"access_token": "at", "refresh_token": "rt"}`)

	s := NewSession(cfg)
	s.Initialize()
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.State() != StateSignedOut {
		t.Error("session still signed in after logout")
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir(), config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token file survived logout")
	}

	// Logging out twice is fine.
	if err := s.Logout(); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}
