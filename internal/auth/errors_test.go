package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(cancelled("sign-in dismissed")) {
		t.Error("cancelled error not recognized")
	}
	if !IsCancelled(fmt.Errorf("login: %w", cancelled("sign-in dismissed"))) {
		t.Error("wrapped cancelled error not recognized")
	}
	if IsCancelled(configErr("", "no client", nil)) {
		t.Error("config error misread as cancelled")
	}
	if IsCancelled(errors.New("boom")) {
		t.Error("plain error misread as cancelled")
	}
}

func TestRemediation(t *testing.T) {
	err := configErr("http://localhost:8839", "consent page reported an error", nil)
	steps := err.Remediation()
	if len(steps) != 3 {
		t.Fatalf("got %d remediation steps, want 3", len(steps))
	}

	var found bool
	for _, s := range steps {
		if s == "verify the OAuth client allows the redirect origin http://localhost:8839" {
			found = true
		}
	}
	if !found {
		t.Errorf("no step names the redirect origin: %v", steps)
	}

	if transient("timeout", nil).Remediation() != nil {
		t.Error("transient errors must not carry remediation steps")
	}
	if cancelled("dismissed").Remediation() != nil {
		t.Error("cancelled errors must not carry remediation steps")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := transient("token exchange failed", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}
