package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/shared"
)

// OnboardingService submits the finished onboarding flow to the backend.
type OnboardingService struct {
	client *Client
	logger *log.Logger
}

// NewOnboardingService creates an OnboardingService backed by the given client.
func NewOnboardingService(client *Client, logger *log.Logger) *OnboardingService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &OnboardingService{client: client, logger: logger}
}

// CompleteRequest is the payload for POST /onboarding/complete: the user's
// OTT subscriptions, swipe verdicts grouped by genre, and the derived
// preference vector.
type CompleteRequest struct {
	UserID           int64     `json:"userId"`
	OTT              []string  `json:"ott"`
	LikedGenres      []string  `json:"likedGenres"`
	DislikedGenres   []string  `json:"dislikedGenres"`
	PreferenceVector []float64 `json:"preferenceVector"`
}

// CompleteResponse is the backend's acknowledgement of a finished onboarding.
type CompleteResponse struct {
	OnboardingCompleted bool   `json:"onboarding_completed"`
	Message             string `json:"message"`
}

// Complete submits the onboarding result.
func (s *OnboardingService) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	var resp CompleteResponse
	if err := s.client.Post(ctx, "/onboarding/complete", req, &resp); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "온보딩 완료 처리에 실패했습니다")
	}

	s.logger.Info("onboarding completed", "userId", req.UserID, "ott", len(req.OTT))
	return &resp, nil
}
