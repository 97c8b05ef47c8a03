package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
)

type fakeVerifier struct {
	users map[string]model.User
	err   error
	calls int
}

func (f *fakeVerifier) Me(_ context.Context, token string) (model.User, error) {
	f.calls++
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return model.User{}, fmt.Errorf("%w: unknown token", api.ErrUnauthorized)
	}
	return u, nil
}

func tokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.yml")
}

func TestLoginStoresAndPersists(t *testing.T) {
	t.Parallel()

	path := tokenPath(t)
	s := New(path)
	v := &fakeVerifier{users: map[string]model.User{"tok-1": {ID: 1, Email: "a@b.c"}}}

	if err := s.Login(context.Background(), v, "tok-1"); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	if !s.Authenticated() || s.Token() != "tok-1" {
		t.Fatal("session not authenticated after login")
	}
	if s.User() == nil || s.User().Email != "a@b.c" {
		t.Fatalf("user = %+v", s.User())
	}

	// A fresh session hydrated from the same file picks the login up.
	s2 := New(path)
	if err := s2.Hydrate(context.Background(), v); err != nil {
		t.Fatalf("Hydrate() = %v", err)
	}
	if s2.Token() != "tok-1" {
		t.Fatalf("hydrated token = %q, want tok-1", s2.Token())
	}
}

func TestLoginRejectsBadToken(t *testing.T) {
	t.Parallel()

	s := New(tokenPath(t))
	v := &fakeVerifier{users: map[string]model.User{}}

	if err := s.Login(context.Background(), v, "nope"); err == nil {
		t.Fatal("login with a rejected token must fail")
	}
	if s.Authenticated() {
		t.Fatal("session must stay anonymous after failed login")
	}
}

func TestHydrateDiscardsRejectedToken(t *testing.T) {
	t.Parallel()

	path := tokenPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("token: stale-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	v := &fakeVerifier{users: map[string]model.User{}}
	if err := s.Hydrate(context.Background(), v); err != nil {
		t.Fatalf("Hydrate() = %v, want nil for a rejected token", err)
	}
	if s.Authenticated() {
		t.Fatal("rejected token must leave the session anonymous")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("rejected token file should be removed")
	}
}

func TestHydrateKeepsTokenOnTransientFailure(t *testing.T) {
	t.Parallel()

	path := tokenPath(t)
	if err := os.WriteFile(path, []byte("token: maybe-fine\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	v := &fakeVerifier{err: errors.New("connection refused")}
	if err := s.Hydrate(context.Background(), v); err == nil {
		t.Fatal("transient verify failure should be reported")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("token file must survive a transient failure")
	}
}

func TestHydrateMissingFileIsAnonymous(t *testing.T) {
	t.Parallel()

	s := New(tokenPath(t))
	v := &fakeVerifier{}
	if err := s.Hydrate(context.Background(), v); err != nil {
		t.Fatalf("Hydrate() = %v", err)
	}
	if s.Authenticated() || v.calls != 0 {
		t.Fatal("missing token file should mean anonymous, no verify call")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	path := tokenPath(t)
	s := New(path)
	v := &fakeVerifier{users: map[string]model.User{"t": {ID: 2, Email: "x@y.z"}}}
	if err := s.Login(context.Background(), v, "t"); err != nil {
		t.Fatal(err)
	}

	s.Logout()

	if s.Authenticated() || s.User() != nil {
		t.Fatal("logout must clear in-memory state")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("logout must remove the persisted token")
	}
}
