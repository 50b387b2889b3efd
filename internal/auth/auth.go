// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth implements the Google OAuth installed-app flow and token
// persistence for the server.
// Implements: prd001-authentication (R1, R2, R3);
//
//	docs/ARCHITECTURE § Authentication.
//
// Credentials live in a single data directory: credentials.json is the OAuth
// client the user downloads from Google Cloud Console, token.json is the
// authorized token the flow persists and refreshes in place.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested during the OAuth flow: full document access plus
// read-only Drive listing.
var Scopes = []string{
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/drive.readonly",
}

// ErrNotAuthenticated signals that no usable token is on disk. Its text is
// surfaced verbatim to the editor user.
var ErrNotAuthenticated = errors.New("not authenticated: run :GDocsAuth first")

// DefaultDataDir returns the directory credentials live in:
// $XDG_DATA_HOME/nvim/gdocs, falling back to ~/.local/share/nvim/gdocs.
func DefaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "nvim", "gdocs"), nil
}

// Manager owns the OAuth credentials under one data directory.
type Manager struct {
	dataDir string
}

// NewManager creates the data directory if needed and returns a manager for
// it. An empty dataDir selects the default location.
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Manager{dataDir: dataDir}, nil
}

// DataDir returns the manager's data directory.
func (m *Manager) DataDir() string { return m.dataDir }

// CredentialsPath returns the OAuth client file the user must provide.
func (m *Manager) CredentialsPath() string { return filepath.Join(m.dataDir, "credentials.json") }

// TokenPath returns the persisted token file.
func (m *Manager) TokenPath() string { return filepath.Join(m.dataDir, "token.json") }

// loadConfig parses the user-supplied OAuth client from credentials.json.
func (m *Manager) loadConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(m.CredentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("credentials.json not found: download OAuth credentials from Google Cloud Console and save to %s", m.CredentialsPath())
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return cfg, nil
}

func (m *Manager) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(m.TokenPath())
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return &tok, nil
}

func (m *Manager) saveToken(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(m.TokenPath(), data, 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// usableToken loads the stored token, refreshing and re-persisting it when
// expired. Refreshing needs credentials.json for the client secret.
func (m *Manager) usableToken(ctx context.Context) (*oauth2.Token, error) {
	tok, err := m.loadToken()
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, err
	}
	fresh, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if err := m.saveToken(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// IsAuthenticated reports whether a usable token is available, refreshing an
// expired one when possible.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	tok, err := m.usableToken(ctx)
	return err == nil && tok.Valid()
}

// Client returns an HTTP client that attaches the stored token to every
// request and persists any token rotation back to token.json, so refreshes
// survive server restarts. It returns ErrNotAuthenticated when no usable
// token exists.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	tok, err := m.usableToken(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, err
	}
	src := &savingSource{m: m, src: cfg.TokenSource(ctx, tok), last: tok.AccessToken}
	return oauth2.NewClient(ctx, src), nil
}

// savingSource persists tokens whenever the wrapped source rotates them.
type savingSource struct {
	m    *Manager
	src  oauth2.TokenSource
	mu   sync.Mutex
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.m.saveToken(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

// Authenticate runs the installed-app OAuth flow: it starts a loopback
// redirect listener on an ephemeral port, prints the consent URL for the
// user to open, exchanges the returned authorization code, and persists the
// token. It blocks until the flow completes or ctx is cancelled.
func (m *Manager) Authenticate(ctx context.Context, w io.Writer) error {
	cfg, err := m.loadConfig()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("starting redirect listener: %w", err)
	}
	defer ln.Close()
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		return err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(rw, "state mismatch", http.StatusBadRequest)
			errCh <- errors.New("oauth state mismatch")
		case q.Get("error") != "":
			http.Error(rw, q.Get("error"), http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization refused: %s", q.Get("error"))
		default:
			fmt.Fprintln(rw, "Authentication complete. You can close this tab and return to Neovim.")
			codeCh <- q.Get("code")
		}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	fmt.Fprintf(w, "Open this URL in your browser to authorize:\n\n  %s\n\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := m.saveToken(tok); err != nil {
		return err
	}
	fmt.Fprintln(w, "Authentication successful!")
	return nil
}

// randomState returns an unguessable state parameter for the OAuth flow.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
