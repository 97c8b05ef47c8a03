// Package session holds the authenticated identity for the running program.
// The session is an explicit object passed to its consumers rather than
// ambient global state: hydrated once at startup, set on login, cleared on
// logout. Consumers only read it to decide request scope.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pasteor/pasteor-cli/internal/api"
	"github.com/pasteor/pasteor-cli/internal/model"
)

// Verifier resolves a token to its user identity. Satisfied by *api.Client.
type Verifier interface {
	Me(ctx context.Context, token string) (model.User, error)
}

// ErrNoToken means no credentials are stored; owner-scoped views redirect
// to login instead of rendering an error.
var ErrNoToken = errors.New("session: no token stored")

type tokenFile struct {
	Token string `yaml:"token"`
}

// Session is the process-wide auth state. Zero value is anonymous.
type Session struct {
	path string

	token string
	user  *model.User
}

// New creates a session persisted at path (e.g. ~/.config/pasteor/session.yml).
func New(path string) *Session {
	return &Session{path: path}
}

// Hydrate loads the persisted token and verifies it against the API. A
// token the server rejects is discarded, leaving the session anonymous; any
// other failure (e.g. server unreachable) is returned without touching the
// stored token.
func (s *Session) Hydrate(ctx context.Context, v Verifier) error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read token file: %w", err)
	}

	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("session: parse token file: %w", err)
	}
	if tf.Token == "" {
		return nil
	}

	user, err := v.Me(ctx, tf.Token)
	if err != nil {
		if isRejected(err) {
			// Stored token is dead; drop it so the next start is clean.
			_ = os.Remove(s.path)
			return nil
		}
		return err
	}

	s.token = tf.Token
	s.user = &user
	return nil
}

// Login verifies the token, and on success stores it in memory and on disk.
func (s *Session) Login(ctx context.Context, v Verifier, token string) error {
	if token == "" {
		return ErrNoToken
	}
	user, err := v.Me(ctx, token)
	if err != nil {
		return err
	}

	s.token = token
	s.user = &user

	if err := s.persist(token); err != nil {
		// In-memory login stands; persistence failure only costs the next run.
		return err
	}
	return nil
}

// Logout clears the session and removes the persisted token.
func (s *Session) Logout() {
	s.token = ""
	s.user = nil
	if s.path != "" {
		_ = os.Remove(s.path)
	}
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string { return s.token }

// User returns the authenticated user, or nil when anonymous.
func (s *Session) User() *model.User { return s.user }

// Authenticated reports whether a verified token is held.
func (s *Session) Authenticated() bool { return s.token != "" }

func (s *Session) persist(token string) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: create config dir: %w", err)
	}
	data, err := yaml.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("session: marshal token file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write token file: %w", err)
	}
	return nil
}

// isRejected reports whether the verify failure means "bad token" rather
// than "could not ask".
func isRejected(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}
