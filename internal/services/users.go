package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

// UserService covers profile reads, profile updates and account deletion.
type UserService struct {
	client *Client
	logger *log.Logger
}

// NewUserService creates a UserService backed by the given client.
func NewUserService(client *Client, logger *log.Logger) *UserService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &UserService{client: client, logger: logger}
}

// User fetches a user's profile. A missing id maps to [shared.ErrUserNotFound].
func (s *UserService) User(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrUserNotFound, id)
		}
		return nil, mapFailure(err, shared.ErrAPIRequest, "프로필을 불러오지 못했습니다")
	}
	return &user, nil
}

// ProfileUpdate is the subset of the profile a user may change. Nil fields
// are left untouched by the backend.
type ProfileUpdate struct {
	Name           *string  `json:"name,omitempty"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty"`
	OTTServices    []string `json:"ottServices,omitempty"`
}

// Update patches a user's profile and mirrors the result into the stored
// session when it belongs to the signed-in user.
func (s *UserService) Update(ctx context.Context, id int64, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.client.Patch(ctx, fmt.Sprintf("/users/%d", id), update, &user); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "프로필 수정에 실패했습니다")
	}

	if session := s.client.Sessions().Current(); session != nil && session.User.ID == id {
		session.User = user
		if err := s.client.Sessions().Save(*session); err != nil {
			s.logger.Warn("failed to persist updated profile", "err", err)
		}
	}

	return &user, nil
}

// Delete removes the user's account and destroys the local session.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/users/%d", id)); err != nil {
		return mapFailure(err, shared.ErrAPIRequest, "회원 탈퇴에 실패했습니다")
	}

	if err := s.client.Sessions().Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.logger.Info("account deleted", "userId", id)
	return nil
}
