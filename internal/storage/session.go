package storage

import (
	"encoding/json"
	"fmt"

	"github.com/moviesir/moviesir/internal/models"
	"golang.org/x/oauth2"
)

// Theme values persisted under [KeyTheme].
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// SessionStore owns the [models.Session] lifecycle on top of a [Store].
type SessionStore struct {
	store *Store
}

// NewSessionStore creates a SessionStore over the given Store.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store}
}

// Save persists the session's token pair and serialized user record.
func (s *SessionStore) Save(session models.Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	if err := s.store.Set(KeyAccessToken, session.Token.AccessToken); err != nil {
		return err
	}
	if err := s.store.Set(KeyRefreshToken, session.Token.RefreshToken); err != nil {
		return err
	}
	return s.store.Set(KeyUser, string(userJSON))
}

// SetAccessToken replaces the stored access token in place, leaving the
// refresh token and user record untouched. Used by the refresh interceptor.
func (s *SessionStore) SetAccessToken(token string) error {
	return s.store.Set(KeyAccessToken, token)
}

// Clear destroys the session.
func (s *SessionStore) Clear() error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the persisted session, or nil when no session exists.
// Malformed persisted state is treated as no session, never an error.
func (s *SessionStore) Current() *models.Session {
	access, ok, err := s.store.Get(KeyAccessToken)
	if err != nil || !ok {
		return nil
	}

	refresh, _, err := s.store.Get(KeyRefreshToken)
	if err != nil {
		return nil
	}

	session := &models.Session{
		Token: oauth2.Token{AccessToken: access, RefreshToken: refresh},
	}

	if userJSON, ok, err := s.store.Get(KeyUser); err == nil && ok {
		// Corrupt user JSON degrades to a session without a user record.
		json.Unmarshal([]byte(userJSON), &session.User)
	}

	return session
}

// Theme returns the persisted theme preference, defaulting to dark.
func (s *SessionStore) Theme() string {
	theme, ok, err := s.store.Get(KeyTheme)
	if err != nil || !ok {
		return ThemeDark
	}
	if theme != ThemeDark && theme != ThemeLight {
		return ThemeDark
	}
	return theme
}

// SetTheme persists the theme preference.
func (s *SessionStore) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme: %s", theme)
	}
	return s.store.Set(KeyTheme, theme)
}
