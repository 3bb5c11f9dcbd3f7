package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
	"golang.org/x/oauth2"
)

// AuthService wraps the /auth endpoints and owns session persistence on
// login, signup confirmation, and logout.
type AuthService struct {
	client *Client
	logger *log.Logger
}

// NewAuthService creates an AuthService over the shared client.
func NewAuthService(client *Client, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthService{client: client, logger: logger}
}

type sessionResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
	Message      string      `json:"message"`
}

func (r sessionResponse) session() models.Session {
	return models.Session{
		Token: oauth2.Token{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken},
		User:  r.User,
	}
}

// Login authenticates with email and password and persists the returned
// session. Validation failures surface before any request is made.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: 비밀번호를 입력해주세요", shared.ErrInvalidInput)
	}

	var resp sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, mapFailure(err, shared.ErrAuthFailed, "로그인 중 오류가 발생했습니다")
	}

	session := resp.session()
	if err := s.client.Sessions().Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("logged in", "user", session.User.Email)
	return &session, nil
}

// SignupRequest submits a registration request and returns the pending user
// id. The account is not active until the emailed code is confirmed.
func (s *AuthService) SignupRequest(ctx context.Context, email, password, name string) (int64, error) {
	if err := models.ValidateEmail(email); err != nil {
		return 0, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return 0, err
	}
	if err := models.ValidateName(name); err != nil {
		return 0, err
	}

	var resp struct {
		UserID  int64  `json:"userId"`
		Message string `json:"message"`
	}
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := s.client.Post(ctx, "/auth/signup/request", body, &resp); err != nil {
		return 0, mapFailure(err, shared.ErrAuthFailed, "회원가입 중 오류가 발생했습니다")
	}

	return resp.UserID, nil
}

// SignupConfirm verifies the emailed code, completing registration. The
// backend responds with a full session, which is persisted.
func (s *AuthService) SignupConfirm(ctx context.Context, email, code string) (*models.Session, error) {
	var resp sessionResponse
	body := map[string]string{"email": email, "code": code}
	if err := s.client.Post(ctx, "/auth/signup/confirm", body, &resp); err != nil {
		return nil, mapFailure(err, shared.ErrAuthFailed, "인증 코드 확인 중 오류가 발생했습니다")
	}

	session := resp.session()
	if err := s.client.Sessions().Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("signup confirmed", "user", session.User.Email)
	return &session, nil
}

// SignupResend requests a fresh verification code for a pending signup.
func (s *AuthService) SignupResend(ctx context.Context, email string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.Post(ctx, "/auth/signup/resend", map[string]string{"email": email}, &resp); err != nil {
		return "", mapFailure(err, shared.ErrAuthFailed, "인증 코드 재전송 중 오류가 발생했습니다")
	}
	return resp.Message, nil
}

// Logout notifies the backend best-effort and always destroys the local
// session, even when the request fails.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.logger.Warn("logout request failed", "err", err)
	}
	return s.client.Sessions().Clear()
}

// CurrentUser returns the locally stored user record, or nil when signed out.
func (s *AuthService) CurrentUser() *models.User {
	session := s.client.Sessions().Current()
	if session == nil {
		return nil
	}
	return &session.User
}

// mapFailure wraps an API failure in the module's sentinel with the
// backend-provided message when one exists, falling back to a localized
// generic message. Session expiry passes through untouched so callers can
// detect forced logout with [errors.Is].
func mapFailure(err error, sentinel error, fallback string) error {
	if errors.Is(err, shared.ErrSessionExpired) {
		return err
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, statusErr.Message)
	}
	return fmt.Errorf("%w: %s", sentinel, fallback)
}
