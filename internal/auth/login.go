package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

const (
	// callbackTimeout bounds the wait for the browser consent redirect.
	callbackTimeout = 5 * time.Minute

	// exchangeTimeout bounds the code-for-token exchange.
	exchangeTimeout = 30 * time.Second

	// startPort is the first loopback port tried for the OAuth callback.
	startPort = 8839

	maxPortAttempts = 5
)

// callbackResult is what the loopback handler extracts from the redirect.
type callbackResult struct {
	code   string
	errKey string // OAuth "error" query parameter, e.g. access_denied
}

// Login runs the interactive consent flow: a loopback callback server, a
// browser consent page, and the token exchange. On success the token is
// persisted and the session flips to StateSignedIn. onURL, if non-nil, is
// invoked with the consent URL so the caller can display it.
func (s *Session) Login(ctx context.Context, onURL func(url string)) error {
	oc, err := s.oauthConfig()
	if err != nil {
		return err
	}

	port, listener, err := listenLoopback()
	if err != nil {
		return transient("could not bind a local port for the OAuth callback", err)
	}
	defer listener.Close()

	redirectURL := fmt.Sprintf("http://localhost:%d/callback", port)
	oc.RedirectURL = redirectURL

	verifier := oauth2.GenerateVerifier()
	authURL := oc.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	if onURL != nil {
		onURL(authURL)
	}
	openBrowser(authURL)

	resultCh := make(chan callbackResult, 1)
	server := &http.Server{Handler: callbackHandler(resultCh)}
	go func() { _ = server.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	var result callbackResult
	select {
	case result = <-resultCh:
	case <-time.After(callbackTimeout):
		return transient("sign-in timed out waiting for the browser", nil)
	case <-ctx.Done():
		return cancelled("sign-in cancelled")
	}

	// The consent screen sends error=access_denied when the user dismisses
	// the prompt. That is not a failure to report.
	if result.errKey != "" {
		if result.errKey == "access_denied" {
			return cancelled("sign-in dismissed")
		}
		return configErr(redirectURL,
			fmt.Sprintf("sign-in rejected by the identity provider (%s)", result.errKey), nil)
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	token, err := oc.Exchange(exchangeCtx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return transient("exchanging authorization code failed", err)
	}

	if err := s.cfg.EnsureDir(); err != nil {
		return transient("creating config directory failed", err)
	}
	if err := saveToken(s.cfg.TokenPath(), token); err != nil {
		return transient("saving token failed", err)
	}

	s.mu.Lock()
	s.token = token
	s.state = StateSignedIn
	s.mu.Unlock()
	return nil
}

func callbackHandler(resultCh chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errKey := q.Get("error"); errKey != "" {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><h1>Sign-in not completed</h1><p>You may close this window.</p></body></html>")
			resultCh <- callbackResult{errKey: errKey}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			resultCh <- callbackResult{errKey: "invalid_callback"}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You may close this window.</p></body></html>")
		resultCh <- callbackResult{code: code}
	})
	return mux
}

// listenLoopback tries a small range of fixed ports so the redirect URL can
// be pre-registered on the OAuth client.
func listenLoopback() (int, net.Listener, error) {
	for i := range maxPortAttempts {
		port := startPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available callback port in %d-%d", startPort, startPort+maxPortAttempts-1)
}

// openBrowser launches the consent URL in the default browser, best-effort.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
