package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

type fakeStore struct {
	token   *oauth2.Token
	deleted bool
}

func (s *fakeStore) Load() (*oauth2.Token, error) {
	return s.token, nil
}

func (s *fakeStore) Store(token *oauth2.Token) error {
	s.token = token
	return nil
}

func (s *fakeStore) Delete() error {
	s.token = nil
	s.deleted = true
	return nil
}

func testProvider(store TokenStore, revokeURL string, client *http.Client) *Provider {
	p := NewProvider("client-id", "client-secret")
	p.store = store
	if revokeURL != "" {
		p.revokeURL = revokeURL
	}
	if client != nil {
		p.client = client
	}
	return p
}

func TestRevokeWithoutTokenIsNoOp(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	store := &fakeStore{}
	p := testProvider(store, srv.URL, srv.Client())

	if err := p.Revoke(context.Background()); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no network call, got %d", hits)
	}
	if store.deleted {
		t.Fatalf("expected no eviction attempt")
	}
}

func TestRevokeDeletesCachedToken(t *testing.T) {
	var hits int
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		gotToken = r.URL.Query().Get("token")
	}))
	defer srv.Close()

	store := &fakeStore{token: &oauth2.Token{AccessToken: "tok-123"}}
	p := testProvider(store, srv.URL, srv.Client())

	if err := p.Revoke(context.Background()); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one revocation call, got %d", hits)
	}
	if gotToken != "tok-123" {
		t.Fatalf("revocation call carried token %q", gotToken)
	}
	if !store.deleted {
		t.Fatalf("expected token to be evicted from the store")
	}
}

func TestRevokeSurfacesEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &fakeStore{token: &oauth2.Token{AccessToken: "tok-123"}}
	p := testProvider(store, srv.URL, srv.Client())

	err := p.Revoke(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *auth.Error, got %T", err)
	}
	if store.deleted {
		t.Fatalf("token must not be evicted when revocation fails")
	}
}

func TestTokenSilentReturnsNilWithoutSession(t *testing.T) {
	p := testProvider(&fakeStore{}, "", nil)

	token, err := p.TokenSilent(context.Background())
	if err != nil {
		t.Fatalf("TokenSilent() error: %v", err)
	}
	if token != nil {
		t.Fatalf("expected absent token, got %+v", token)
	}
}

func TestTokenSilentReturnsCachedToken(t *testing.T) {
	cached := &oauth2.Token{
		AccessToken: "tok-valid",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	p := testProvider(&fakeStore{token: cached}, "", nil)

	token, err := p.TokenSilent(context.Background())
	if err != nil {
		t.Fatalf("TokenSilent() error: %v", err)
	}
	if token == nil || token.AccessToken != "tok-valid" {
		t.Fatalf("expected cached token back, got %+v", token)
	}
}

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on empty keyring error: %v", err)
	}
	if token != nil {
		t.Fatalf("expected nil token from empty keyring")
	}

	want := &oauth2.Token{AccessToken: "tok-abc", RefreshToken: "ref-abc", TokenType: "Bearer"}
	if err := store.Store(want); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil || got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Fatalf("loaded token %+v, want %+v", got, want)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() on empty keyring should be a no-op, got %v", err)
	}
}
