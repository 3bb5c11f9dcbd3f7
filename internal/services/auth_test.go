package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

func newAuthFixture(t *testing.T, handler http.HandlerFunc) (*AuthService, *memorySessions) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := newMemorySessions("", "")
	sessions.Clear()
	client := NewClient(server.URL, nil, sessions, nil)
	return NewAuthService(client, nil), sessions
}

func TestAuthLogin(t *testing.T) {
	t.Run("persists the returned session", func(t *testing.T) {
		svc, sessions := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"accessToken":  "access-1",
				"refreshToken": "refresh-1",
				"user":         map[string]any{"id": 7, "email": "user@example.com", "name": "무비서"},
			})
		})

		session, err := svc.Login(context.Background(), "user@example.com", "pass1234")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.User.ID != 7 {
			t.Errorf("user id = %d, want 7", session.User.ID)
		}

		stored := sessions.Current()
		if stored == nil || stored.AccessToken() != "access-1" || stored.RefreshToken() != "refresh-1" {
			t.Errorf("stored session = %+v", stored)
		}
	})

	t.Run("rejects invalid email before any request", func(t *testing.T) {
		svc, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend should not be called")
		})

		_, err := svc.Login(context.Background(), "not-an-email", "pass1234")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("surfaces the backend failure message", func(t *testing.T) {
		svc, sessions := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "이메일 또는 비밀번호가 올바르지 않습니다"})
		})

		_, err := svc.Login(context.Background(), "user@example.com", "wrongpass1")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if sessions.Current() != nil {
			t.Error("failed login must not store a session")
		}
	})
}

func TestAuthSignup(t *testing.T) {
	t.Run("request returns the pending user id", func(t *testing.T) {
		svc, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"userId": 42, "message": "인증 코드를 전송했습니다"})
		})

		userID, err := svc.SignupRequest(context.Background(), "new@example.com", "pass1234", "홍길동")
		if err != nil {
			t.Fatalf("SignupRequest failed: %v", err)
		}
		if userID != 42 {
			t.Errorf("userID = %d, want 42", userID)
		}
	})

	t.Run("request validates password strength", func(t *testing.T) {
		svc, _ := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend should not be called")
		})

		if _, err := svc.SignupRequest(context.Background(), "new@example.com", "short", "홍길동"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("short password: got %v", err)
		}
		if _, err := svc.SignupRequest(context.Background(), "new@example.com", "onlyletters", "홍길동"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("no digit: got %v", err)
		}
	})

	t.Run("confirm persists the session", func(t *testing.T) {
		svc, sessions := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["code"] != "123456" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"message": "인증 코드가 올바르지 않습니다"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"accessToken":  "access-1",
				"refreshToken": "refresh-1",
				"user":         map[string]any{"id": 42, "email": "new@example.com", "name": "홍길동"},
			})
		})

		session, err := svc.SignupConfirm(context.Background(), "new@example.com", "123456")
		if err != nil {
			t.Fatalf("SignupConfirm failed: %v", err)
		}
		if session.User.Name != "홍길동" {
			t.Errorf("user = %+v", session.User)
		}
		if sessions.Current() == nil {
			t.Error("session not stored after confirm")
		}
	})
}

func TestAuthLogout(t *testing.T) {
	t.Run("clears the session even when the request fails", func(t *testing.T) {
		svc, sessions := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		sessions.Save(models.Session{User: models.User{ID: 1}})

		if err := svc.Logout(context.Background()); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if sessions.Current() != nil {
			t.Error("session survived logout")
		}
	})
}

func TestCurrentUser(t *testing.T) {
	svc, sessions := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	if user := svc.CurrentUser(); user != nil {
		t.Errorf("signed out CurrentUser = %+v, want nil", user)
	}

	sessions.Save(models.Session{User: models.User{ID: 5, Email: "user@example.com"}})
	user := svc.CurrentUser()
	if user == nil || user.ID != 5 {
		t.Errorf("CurrentUser = %+v", user)
	}
}
