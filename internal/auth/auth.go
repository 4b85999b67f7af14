package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	callbackAddr = "localhost:8743"
	revokeURL    = "https://accounts.google.com/o/oauth2/revoke"

	consentTimeout = 5 * time.Minute
)

// Error wraps any token-acquisition or revocation failure. The absence of a
// cached session is not an Error; TokenSilent reports it as (nil, nil).
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Provider acquires and revokes the single user token backing every calendar
// request. Tokens are cached in the system keyring; refresh happens
// transparently on silent acquisition.
type Provider struct {
	config    *oauth2.Config
	store     TokenStore
	revokeURL string
	client    *http.Client
}

func NewProvider(clientID, clientSecret string) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "http://" + callbackAddr + "/callback",
			Scopes:       []string{gcal.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		store:     NewKeyringStore(),
		revokeURL: revokeURL,
		client:    http.DefaultClient,
	}
}

// TokenSilent returns the cached token without prompting the user, refreshing
// it when expired. It returns (nil, nil) when no session exists.
func (p *Provider) TokenSilent(ctx context.Context) (*oauth2.Token, error) {
	token, err := p.store.Load()
	if err != nil {
		return nil, &Error{Op: "load cached token", Err: err}
	}
	if token == nil {
		log.Debug("no cached token in keyring")
		return nil, nil
	}

	fresh, err := p.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, &Error{Op: "refresh token", Err: err}
	}
	if fresh.AccessToken != token.AccessToken {
		if err := p.store.Store(fresh); err != nil {
			log.Warnf("failed to store refreshed token: %v", err)
		}
	}
	return fresh, nil
}

// TokenInteractive runs the consent flow: it opens the user's browser on the
// authorization URL, receives the code on a loopback callback server,
// exchanges it and caches the result.
func (p *Provider) TokenInteractive(ctx context.Context) (*oauth2.Token, error) {
	if p.config.ClientID == "" || p.config.ClientSecret == "" {
		return nil, &Error{Op: "configure", Err: fmt.Errorf("OAuth client credentials are not configured; run \"tabcal setup\" and edit the config file")}
	}

	state, err := generateState()
	if err != nil {
		return nil, &Error{Op: "generate state", Err: err}
	}

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "invalid state parameter", http.StatusBadRequest)
			errChan <- fmt.Errorf("invalid state parameter")
			return
		}
		if errName := r.URL.Query().Get("error"); errName != "" {
			http.Error(w, "authorization declined", http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization declined: %s", errName)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "authorization code not found", http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization code not found")
			return
		}
		fmt.Fprint(w, "<html><body><p>Signed in. You can close this window and return to tabcal.</p></body></html>")
		codeChan <- code
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	authURL := p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if err := openBrowser(authURL); err != nil {
		log.Warnf("failed to open browser automatically: %v", err)
		fmt.Printf("Open the following URL in your browser:\n%s\n", authURL)
	}

	select {
	case code := <-codeChan:
		return p.exchange(ctx, code)
	case err := <-errChan:
		return nil, &Error{Op: "wait for consent", Err: err}
	case <-time.After(consentTimeout):
		return nil, &Error{Op: "wait for consent", Err: fmt.Errorf("authorization timed out")}
	case <-ctx.Done():
		return nil, &Error{Op: "wait for consent", Err: ctx.Err()}
	}
}

func (p *Provider) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Op: "exchange code", Err: err}
	}
	if token.AccessToken == "" {
		return nil, &Error{Op: "exchange code", Err: fmt.Errorf("granted token is empty")}
	}
	if err := p.store.Store(token); err != nil {
		return nil, &Error{Op: "store token", Err: err}
	}
	log.Info("token acquired and cached")
	return token, nil
}

// Revoke looks up the cached token non-interactively, calls the remote
// revocation endpoint and evicts the token from the keyring. With no cached
// token it succeeds as a no-op and makes no network call.
func (p *Provider) Revoke(ctx context.Context) error {
	token, err := p.store.Load()
	if err != nil {
		return &Error{Op: "load cached token", Err: err}
	}
	if token == nil {
		log.Debug("no cached token, nothing to revoke")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.revokeURL+"?token="+token.AccessToken, nil)
	if err != nil {
		return &Error{Op: "revoke token", Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &Error{Op: "revoke token", Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Op: "revoke token", Err: fmt.Errorf("revocation endpoint returned %s", resp.Status)}
	}

	if err := p.store.Delete(); err != nil {
		return &Error{Op: "evict token", Err: err}
	}
	log.Info("token revoked and evicted from keyring")
	return nil
}

// HTTPClient returns a client that authenticates requests with the given
// token, refreshing it as needed.
func (p *Provider) HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	return p.config.Client(ctx, token)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
