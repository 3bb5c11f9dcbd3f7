package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

// MovieService covers the movie catalog, the chatbot recommend endpoint and
// the per-user watch history and recommendation records.
type MovieService struct {
	client *Client
	logger *log.Logger
}

// NewMovieService creates a MovieService backed by the given client.
func NewMovieService(client *Client, logger *log.Logger) *MovieService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MovieService{client: client, logger: logger}
}

// Movies fetches the full movie catalog.
func (s *MovieService) Movies(ctx context.Context) ([]models.Movie, error) {
	var wire []catalogMovie
	if err := s.client.Get(ctx, "/movies", &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "영화 목록을 불러오지 못했습니다")
	}

	movies := make([]models.Movie, len(wire))
	for i, m := range wire {
		movies[i] = m.normalize()
	}
	return movies, nil
}

// Movie fetches a single catalog movie. A missing id maps to
// [shared.ErrMovieNotFound].
func (s *MovieService) Movie(ctx context.Context, id int64) (*models.Movie, error) {
	var wire catalogMovie
	if err := s.client.Get(ctx, fmt.Sprintf("/movies/%d", id), &wire); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrMovieNotFound, id)
		}
		return nil, mapFailure(err, shared.ErrAPIRequest, "영화 정보를 불러오지 못했습니다")
	}

	movie := wire.normalize()
	return &movie, nil
}

// OnboardingMovies fetches the swipe deck. A non-positive limit requests the
// backend default of ten cards.
func (s *MovieService) OnboardingMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		limit = 10
	}

	var wire []onboardingMovie
	path := fmt.Sprintf("/movies/onboarding?limit=%d", limit)
	if err := s.client.Get(ctx, path, &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "온보딩 영화를 불러오지 못했습니다")
	}

	movies := make([]models.Movie, len(wire))
	for i, m := range wire {
		movies[i] = m.normalize()
	}
	return movies, nil
}

// RecommendResult is the outcome of a chatbot recommend call.
type RecommendResult struct {
	Movies         []models.Movie
	Total          int
	FiltersApplied models.RecommendationFilters
}

// Recommend asks the backend for personalized picks matching the filters.
// A 404 means nothing matched and yields an empty result, not an error.
func (s *MovieService) Recommend(ctx context.Context, filters models.RecommendationFilters) (*RecommendResult, error) {
	var wire struct {
		Recommendations []recommendedMovie           `json:"recommendations"`
		Total           int                          `json:"total"`
		FiltersApplied  models.RecommendationFilters `json:"filters_applied"`
	}

	if err := s.client.Post(ctx, "/chatbot/recommend", filters, &wire); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			s.logger.Debug("no recommendations matched filters", "runtime", filters.RuntimeMinutes, "genres", filters.GenreIDs)
			return &RecommendResult{FiltersApplied: filters}, nil
		}
		return nil, mapFailure(err, shared.ErrRecommendFailed, "추천을 받아오지 못했습니다")
	}

	movies := make([]models.Movie, len(wire.Recommendations))
	for i, m := range wire.Recommendations {
		movies[i] = m.normalize()
	}
	return &RecommendResult{Movies: movies, Total: wire.Total, FiltersApplied: wire.FiltersApplied}, nil
}

// WatchHistory fetches a user's watch history records.
func (s *MovieService) WatchHistory(ctx context.Context, userID int64) ([]models.WatchHistoryEntry, error) {
	var wire []watchHistoryEntry
	path := fmt.Sprintf("/watchHistory?userId=%d", userID)
	if err := s.client.Get(ctx, path, &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "시청 기록을 불러오지 못했습니다")
	}

	entries := make([]models.WatchHistoryEntry, len(wire))
	for i, e := range wire {
		entries[i] = e.normalize()
	}
	return entries, nil
}

// AddWatchHistory appends a watch record for the user, stamped with the
// current time.
func (s *MovieService) AddWatchHistory(ctx context.Context, userID, movieID int64, rating float64) (*models.WatchHistoryEntry, error) {
	body := map[string]any{
		"userId":    userID,
		"movieId":   movieID,
		"watchedAt": time.Now().UTC().Format(time.RFC3339),
		"rating":    rating,
	}

	var wire watchHistoryEntry
	if err := s.client.Post(ctx, "/watchHistory", body, &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "시청 기록을 저장하지 못했습니다")
	}

	entry := wire.normalize()
	return &entry, nil
}

// Recommendations fetches a user's recorded recommendations.
func (s *MovieService) Recommendations(ctx context.Context, userID int64) ([]models.Recommendation, error) {
	var wire []recommendationRecord
	path := fmt.Sprintf("/recommendations?userId=%d", userID)
	if err := s.client.Get(ctx, path, &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "추천 기록을 불러오지 못했습니다")
	}

	records := make([]models.Recommendation, len(wire))
	for i, r := range wire {
		records[i] = r.normalize()
	}
	return records, nil
}

// AddRecommendation records a recommendation made for the user, stamped with
// the current time.
func (s *MovieService) AddRecommendation(ctx context.Context, userID, movieID int64, reason string) (*models.Recommendation, error) {
	body := map[string]any{
		"userId":        userID,
		"movieId":       movieID,
		"recommendedAt": time.Now().UTC().Format(time.RFC3339),
		"reason":        reason,
	}

	var wire recommendationRecord
	if err := s.client.Post(ctx, "/recommendations", body, &wire); err != nil {
		return nil, mapFailure(err, shared.ErrAPIRequest, "추천 기록을 저장하지 못했습니다")
	}

	record := wire.normalize()
	return &record, nil
}
