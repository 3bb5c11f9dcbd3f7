package recommend

import (
	"context"
	"fmt"

	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/services"
	"github.com/moviesir/moviesir/internal/shared"
)

// Recommender is the slice of the movie service the backend strategy needs.
type Recommender interface {
	Recommend(ctx context.Context, filters models.RecommendationFilters) (*services.RecommendResult, error)
}

// BackendStrategy delegates to the backend's personalized recommender.
type BackendStrategy struct {
	source Recommender
}

// NewBackendStrategy creates a BackendStrategy over the given recommender.
func NewBackendStrategy(source Recommender) *BackendStrategy {
	return &BackendStrategy{source: source}
}

func (s *BackendStrategy) Name() string { return "backend" }

func (s *BackendStrategy) Recommend(ctx context.Context, req Request) (*Result, error) {
	resp, err := s.source.Recommend(ctx, req.Filters)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", shared.ErrRecommendFailed)
	}

	result := &Result{Strategy: "backend"}
	for _, movie := range resp.Movies {
		result.Picks = append(result.Picks, Pick{Movie: movie, Reason: ReasonBackend})
	}
	return result, nil
}
