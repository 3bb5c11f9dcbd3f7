package storage

import (
	"testing"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestStore(t *testing.T) {
	t.Run("Get Missing Key", func(t *testing.T) {
		store := newTestStore(t)

		_, ok, err := store.Get("nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected missing key")
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Set("theme", "light"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		value, ok, err := store.Get("theme")
		if err != nil || !ok {
			t.Fatalf("expected value, got ok=%v err=%v", ok, err)
		}
		if value != "light" {
			t.Errorf("expected 'light', got %q", value)
		}
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		store := newTestStore(t)

		store.Set("k", "a")
		store.Set("k", "b")

		value, _, _ := store.Get("k")
		if value != "b" {
			t.Errorf("expected overwritten value 'b', got %q", value)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		store := newTestStore(t)

		store.Set("k", "v")
		if err := store.Remove("k"); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}

		_, ok, _ := store.Get("k")
		if ok {
			t.Error("expected key to be gone")
		}

		if err := store.Remove("k"); err != nil {
			t.Errorf("removing absent key should not error: %v", err)
		}
	})
}

func TestSessionStore(t *testing.T) {
	session := models.Session{
		Token: oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"},
		User: models.User{
			ID:    42,
			Email: "user@example.com",
			Name:  "무비",
			Profile: models.Profile{
				FavoriteGenres: []string{"Action"},
				OTTServices:    []string{"netflix"},
			},
		},
	}

	t.Run("Current Without Session", func(t *testing.T) {
		sessions := NewSessionStore(newTestStore(t))

		if sessions.Current() != nil {
			t.Error("expected nil session")
		}
	})

	t.Run("Save And Current", func(t *testing.T) {
		sessions := NewSessionStore(newTestStore(t))

		if err := sessions.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		current := sessions.Current()
		if current == nil {
			t.Fatal("expected session")
		}
		if current.AccessToken() != "access-1" || current.RefreshToken() != "refresh-1" {
			t.Errorf("unexpected tokens: %+v", current.Token)
		}
		if current.User.ID != 42 || current.User.Email != "user@example.com" {
			t.Errorf("unexpected user: %+v", current.User)
		}
		if len(current.User.Profile.FavoriteGenres) != 1 {
			t.Errorf("expected profile to round-trip, got %+v", current.User.Profile)
		}
	})

	t.Run("SetAccessToken Replaces In Place", func(t *testing.T) {
		sessions := NewSessionStore(newTestStore(t))
		sessions.Save(session)

		if err := sessions.SetAccessToken("access-2"); err != nil {
			t.Fatalf("failed to set access token: %v", err)
		}

		current := sessions.Current()
		if current.AccessToken() != "access-2" {
			t.Errorf("expected replaced access token, got %q", current.AccessToken())
		}
		if current.RefreshToken() != "refresh-1" {
			t.Errorf("refresh token should be untouched, got %q", current.RefreshToken())
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := newTestStore(t)
		sessions := NewSessionStore(store)
		sessions.Save(session)
		sessions.SetTheme(ThemeLight)

		if err := sessions.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		if sessions.Current() != nil {
			t.Error("expected no session after clear")
		}
		if sessions.Theme() != ThemeLight {
			t.Error("theme should survive session clearing")
		}
	})

	t.Run("Malformed User JSON", func(t *testing.T) {
		store := newTestStore(t)
		sessions := NewSessionStore(store)

		store.Set(KeyAccessToken, "access-1")
		store.Set(KeyRefreshToken, "refresh-1")
		store.Set(KeyUser, "{not json")

		current := sessions.Current()
		if current == nil {
			t.Fatal("expected session despite corrupt user record")
		}
		if current.User.ID != 0 {
			t.Errorf("expected zero user, got %+v", current.User)
		}
	})

	t.Run("Theme", func(t *testing.T) {
		sessions := NewSessionStore(newTestStore(t))

		if sessions.Theme() != ThemeDark {
			t.Error("expected dark default")
		}

		if err := sessions.SetTheme(ThemeLight); err != nil {
			t.Fatalf("failed to set theme: %v", err)
		}
		if sessions.Theme() != ThemeLight {
			t.Error("expected light theme")
		}

		if err := sessions.SetTheme("sepia"); err == nil {
			t.Error("expected error for unknown theme")
		}
	})
}
