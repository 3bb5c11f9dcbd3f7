// Package recommend produces movie picks for a user. Two interchangeable
// strategies exist: the backend's personalized recommender, and a local
// fallback ranking used when the backend cannot serve. Callers pick the
// strategy; nothing here falls through implicitly.
package recommend

import (
	"context"

	"github.com/moviesir/moviesir/internal/models"
)

// Reasons attached to picks, shown to the user alongside each movie.
const (
	ReasonGenreMatch = "선호 장르와 잘 맞는 작품이에요"
	ReasonTopRated   = "평점이 높은 작품이에요"
	ReasonPopular    = "요즘 인기 있는 작품이에요"
	ReasonBackend    = "무비서가 취향을 분석해 고른 작품이에요"
)

// Pick is one recommended movie with the reason it was chosen.
type Pick struct {
	Movie  models.Movie
	Reason string
}

// Result is a strategy's outcome. Picks never repeat a movie and never
// include anything the user has already watched.
type Result struct {
	Strategy string
	Picks    []Pick
}

// Movies flattens the picks into a plain movie list.
func (r *Result) Movies() []models.Movie {
	movies := make([]models.Movie, len(r.Picks))
	for i, p := range r.Picks {
		movies[i] = p.Movie
	}
	return movies
}

// Request carries the inputs a strategy may use.
type Request struct {
	User    *models.User
	Filters models.RecommendationFilters
}

// Strategy produces recommendations for a user.
type Strategy interface {
	Name() string
	Recommend(ctx context.Context, req Request) (*Result, error)
}
